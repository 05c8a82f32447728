package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var like = &cobra.Command{
	Use:   "like <photo-id>",
	Short: "like a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

var unlike = &cobra.Command{
	Use:   "unlike <photo-id>",
	Short: "remove a like from a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlike,
}

func runLike(_ *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	if err := s.feed.Like(context.Background(), args[0]); err != nil {
		return errors.Wrap(err, "failed to like photo")
	}

	fmt.Println("liked", args[0])

	return nil
}

func runUnlike(_ *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	if err := s.feed.Unlike(context.Background(), args[0]); err != nil {
		return errors.Wrap(err, "failed to unlike photo")
	}

	fmt.Println("unliked", args[0])

	return nil
}
