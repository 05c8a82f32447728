package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fourtogenic/fourto/pkg/photos"
)

var upload = &cobra.Command{
	Use:   "upload <file>",
	Short: "upload a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var uploadVisibility string

func init() {
	upload.Flags().StringVarP(&uploadVisibility, "visibility", "v", photos.VisibilityPublic, "PUBLIC or PRIVATE")
}

func runUpload(_ *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	uploaded, err := s.photos.Upload(context.Background(), filepath.Base(args[0]), f, uploadVisibility)
	if err != nil {
		return errors.Wrap(err, "upload failed")
	}

	fmt.Printf("uploaded %s\n%s\n", uploaded.ID, uploaded.URL)

	return nil
}
