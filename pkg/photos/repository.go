// Package photos wraps the photo endpoints: upload, detail, visibility and
// album membership.
package photos

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"

	"github.com/fourtogenic/fourto/pkg/api"
)

// Visibility values accepted by the API.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// Uploaded is the result of a photo upload.
type Uploaded struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Detail is the full record for a single photo.
type Detail struct {
	PhotoID    string `json:"photoId"`
	FileURL    string `json:"fileUrl"`
	Visibility string `json:"visibility"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// UserPhoto is one of the current user's own uploads.
type UserPhoto struct {
	ID        string `json:"id"`
	FileURL   string `json:"fileUrl"`
	Liked     bool   `json:"isLiked"`
	LikeCount int    `json:"likeCount"`
	DaysAgo   int    `json:"daysAgo"`
}

type Repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

// Upload sends a photo as multipart form data. name is used for the file
// part's filename, visibility defaults to private when empty.
func (r *Repository) Upload(ctx context.Context, name string, file io.Reader, visibility string) (*Uploaded, error) {
	if visibility == "" {
		visibility = VisibilityPrivate
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return nil, &api.ValidationError{Field: "file", Reason: err.Error()}
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, &api.ValidationError{Field: "file", Reason: err.Error()}
	}

	if err := w.WriteField("visibility", visibility); err != nil {
		return nil, &api.ValidationError{Field: "visibility", Reason: err.Error()}
	}

	if err := w.Close(); err != nil {
		return nil, &api.ValidationError{Field: "file", Reason: err.Error()}
	}

	uploaded := &Uploaded{}
	if err := r.client.PostRaw(ctx, "/photos", w.FormDataContentType(), buf.Bytes(), uploaded); err != nil {
		return nil, err
	}

	return uploaded, nil
}

// Get fetches a single photo's detail record.
func (r *Repository) Get(ctx context.Context, id string) (*Detail, error) {
	detail := &Detail{}
	if err := r.client.GetJSON(ctx, "/photos/"+id, nil, detail); err != nil {
		return nil, err
	}

	return detail, nil
}

// Delete removes a photo.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/photos/"+id, nil, nil)
}

type visibilityRequest struct {
	Visibility string `json:"visibility"`
}

// SetVisibility changes who can see a photo.
func (r *Repository) SetVisibility(ctx context.Context, id, visibility string) error {
	return r.client.PatchJSON(ctx, "/photos/"+id+"/visibility", visibilityRequest{Visibility: visibility}, nil)
}

// Mine lists the current user's uploads.
func (r *Repository) Mine(ctx context.Context) ([]UserPhoto, error) {
	var photos []UserPhoto
	if err := r.client.GetJSON(ctx, "/users/me/photos", nil, &photos); err != nil {
		return nil, err
	}

	return photos, nil
}

type addToAlbumRequest struct {
	AlbumID    string `json:"albumId"`
	Visibility string `json:"visibility"`
}

// AddToAlbum places a photo into an album.
func (r *Repository) AddToAlbum(ctx context.Context, photoID, albumID, visibility string) error {
	if visibility == "" {
		visibility = VisibilityPrivate
	}

	return r.client.PostJSON(ctx, "/photos/"+photoID+"/albums", addToAlbumRequest{AlbumID: albumID, Visibility: visibility}, nil)
}

// RemoveFromAlbum takes a photo out of an album.
func (r *Repository) RemoveFromAlbum(ctx context.Context, photoID, albumID string) error {
	query := url.Values{}
	query.Set("album_id", albumID)

	return r.client.Delete(ctx, "/photos/"+photoID+"/albums", query, nil)
}
