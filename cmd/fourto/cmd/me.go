package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var me = &cobra.Command{
	Use:   "me",
	Short: "show the current user's profile",
	RunE:  runMe,
}

func runMe(*cobra.Command, []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	profile, err := s.users.Me(context.Background())
	if err != nil {
		return errors.Wrap(err, "failed to load profile")
	}

	fmt.Printf("%s (%s)\n", profile.DisplayName, profile.Username)
	if profile.Bio != "" {
		fmt.Println(profile.Bio)
	}
	fmt.Printf("%d photos, %d likes received\n", profile.PhotoCount, profile.ReceivedLikeCount)

	return nil
}
