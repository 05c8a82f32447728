package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var login = &cobra.Command{
	Use:   "login",
	Short: "log in to fourtogenic",
	RunE:  runLogin,
}

var email string

func init() {
	login.Flags().StringVarP(&email, "email", "e", "", "account email")
}

func runLogin(*cobra.Command, []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	if email == "" {
		fmt.Print("email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return errors.Wrap(err, "failed to read email")
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}

	session, err := s.gateway.Login(context.Background(), email, string(password))
	if err != nil {
		return errors.Wrap(err, "login failed")
	}

	fmt.Printf("logged in as %s\n", session.UserID)

	return nil
}
