package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fourtogenic/fourto/pkg/photos"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "manage albums",
}

var albumsList = &cobra.Command{
	Use:   "list",
	Short: "list your albums",
	RunE:  runAlbumsList,
}

var albumsCreate = &cobra.Command{
	Use:   "create <title>",
	Short: "create an album",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbumsCreate,
}

var albumsDelete = &cobra.Command{
	Use:   "delete <album-id>",
	Short: "delete an album",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbumsDelete,
}

var albumsPhotos = &cobra.Command{
	Use:   "photos <album-id>",
	Short: "list the photos in an album",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbumsPhotos,
}

var (
	albumDescription string
	albumVisibility  string
)

func init() {
	albumsCreate.Flags().StringVarP(&albumDescription, "description", "d", "", "album description")
	albumsCreate.Flags().StringVarP(&albumVisibility, "visibility", "v", photos.VisibilityPublic, "PUBLIC or PRIVATE")

	albumsCmd.AddCommand(albumsList)
	albumsCmd.AddCommand(albumsCreate)
	albumsCmd.AddCommand(albumsDelete)
	albumsCmd.AddCommand(albumsPhotos)
}

func runAlbumsList(*cobra.Command, []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	page, err := s.albums.List(context.Background())
	if err != nil {
		return errors.Wrap(err, "failed to list albums")
	}

	for _, album := range page.Items {
		fmt.Printf("%s  %s\n", album.ID, album.Title)
	}

	return nil
}

func runAlbumsCreate(_ *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	album, err := s.albums.Create(context.Background(), args[0], albumDescription, albumVisibility)
	if err != nil {
		return errors.Wrap(err, "failed to create album")
	}

	fmt.Println("created", album.ID)

	return nil
}

func runAlbumsDelete(_ *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	if err := s.albums.Delete(context.Background(), args[0]); err != nil {
		return errors.Wrap(err, "failed to delete album")
	}

	fmt.Println("deleted", args[0])

	return nil
}

func runAlbumsPhotos(_ *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	contents, err := s.albums.Photos(context.Background(), args[0])
	if err != nil {
		return errors.Wrap(err, "failed to list album photos")
	}

	fmt.Println(contents.Album.Title)
	for _, photo := range contents.Photos {
		fmt.Printf("%s  %s\n", photo.ID, photo.FileURL)
	}

	return nil
}
