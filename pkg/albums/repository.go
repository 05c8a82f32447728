// Package albums wraps the album endpoints.
package albums

import (
	"context"

	"github.com/fourtogenic/fourto/pkg/api"
)

type Album struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Page is one cursor's worth of albums.
type Page struct {
	Items      []Album `json:"items"`
	NextCursor string  `json:"nextCursor"`
}

// AlbumPhoto is a photo as listed inside an album.
type AlbumPhoto struct {
	ID      string `json:"id"`
	AlbumID string `json:"albumId"`
	FileURL string `json:"fileUrl"`
}

// Contents is an album together with its photos.
type Contents struct {
	Album      Album        `json:"album"`
	Photos     []AlbumPhoto `json:"photos"`
	NextCursor string       `json:"nextCursor"`
}

type Repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

// List fetches the current user's albums.
func (r *Repository) List(ctx context.Context) (*Page, error) {
	page := &Page{}
	if err := r.client.GetJSON(ctx, "/albums", nil, page); err != nil {
		return nil, err
	}

	return page, nil
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// Create makes a new album. The title must not be blank.
func (r *Repository) Create(ctx context.Context, title, description, visibility string) (*Album, error) {
	if title == "" {
		return nil, &api.ValidationError{Field: "title", Reason: "must not be blank"}
	}

	album := &Album{}
	err := r.client.PostJSON(ctx, "/albums", createRequest{Title: title, Description: description, Visibility: visibility}, album)
	if err != nil {
		return nil, err
	}

	return album, nil
}

// Delete removes an album.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/albums/"+id, nil, nil)
}

// Photos fetches an album's contents.
func (r *Repository) Photos(ctx context.Context, albumID string) (*Contents, error) {
	contents := &Contents{}
	if err := r.client.GetJSON(ctx, "/albums/"+albumID+"/photos", nil, contents); err != nil {
		return nil, err
	}

	return contents, nil
}
