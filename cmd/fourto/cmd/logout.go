package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var logout = &cobra.Command{
	Use:   "logout",
	Short: "forget the stored session",
	RunE:  runLogout,
}

func runLogout(*cobra.Command, []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	if err := s.gateway.Logout(); err != nil {
		return errors.Wrap(err, "logout failed")
	}

	fmt.Println("logged out")

	return nil
}
