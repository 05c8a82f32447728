package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fourtogenic/fourto/pkg/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "browse the public feed",
	RunE:  runFeed,
}

var (
	feedSort  string
	feedLimit int
	feedPages int
)

func init() {
	feedCmd.Flags().StringVarP(&feedSort, "sort", "s", feed.SortLatest, "sort order")
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "l", feed.DefaultLimit, "items per page")
	feedCmd.Flags().IntVarP(&feedPages, "pages", "p", 1, "pages to fetch")
}

func runFeed(*cobra.Command, []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	ctx := context.Background()
	state := feed.NewViewState(s.feed, feedSort, feedLimit)

	for i := 0; i < feedPages && !state.Ended(); i++ {
		if err := state.LoadNextPage(ctx); err != nil {
			return errors.Wrap(err, "failed to load feed")
		}
	}

	for _, item := range state.Items() {
		liked := " "
		if item.Liked {
			liked = "♥"
		}

		fmt.Printf("%s %s  %d likes, %dd ago  %s\n", liked, item.ID, item.LikeCount, item.DaysAgo, item.MediaURL)
	}

	if state.Ended() {
		fmt.Println("-- end of feed --")
	}

	return nil
}
