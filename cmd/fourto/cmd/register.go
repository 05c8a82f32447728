package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var register = &cobra.Command{
	Use:   "register",
	Short: "create a fourtogenic account",
	RunE:  runRegister,
}

var (
	registerEmail       string
	registerUsername    string
	registerDisplayName string
)

func init() {
	register.Flags().StringVarP(&registerEmail, "email", "e", "", "account email")
	register.Flags().StringVarP(&registerUsername, "username", "u", "", "account username")
	register.Flags().StringVarP(&registerDisplayName, "name", "n", "", "display name")

	_ = register.MarkFlagRequired("email")
	_ = register.MarkFlagRequired("username")
}

func runRegister(*cobra.Command, []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}

	name := registerDisplayName
	if name == "" {
		name = registerUsername
	}

	err = s.gateway.Register(context.Background(), registerEmail, registerUsername, string(password), name)
	if err != nil {
		return errors.Wrap(err, "register failed")
	}

	fmt.Println("account created, run `fourto login` to sign in")

	return nil
}
