// Package feed loads the public photo feed and reconciles optimistic like
// mutations against it.
package feed

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fourtogenic/fourto/pkg/api"
)

const (
	// TargetTypePhoto is the like target type for feed photos.
	TargetTypePhoto = "PHOTO"

	// DefaultLimit is the page size used when the caller passes 0.
	DefaultLimit = 20

	// SortLatest is the default feed ordering.
	SortLatest = "latest"
)

//go:generate mockgen -destination ../../mocks/mock_feed_api.go -package mocks github.com/fourtogenic/fourto/pkg/feed API

// API is the remote surface the view state drives. *Repository implements
// it.
type API interface {
	Page(ctx context.Context, sort string, limit int, cursor string) (*Page, error)
	Like(ctx context.Context, id string) error
	Unlike(ctx context.Context, id string) error
}

// Repository wraps the feed and like endpoints. All failures come back as
// values from the pkg/api taxonomy, callers decide whether to retry.
type Repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

// Page fetches one page of the public feed. An empty cursor means the
// first page. limit 0 falls back to DefaultLimit, negative limits are
// rejected before any network call.
func (r *Repository) Page(ctx context.Context, sort string, limit int, cursor string) (*Page, error) {
	if limit < 0 {
		return nil, &api.ValidationError{Field: "limit", Reason: "must be positive"}
	}

	if limit == 0 {
		limit = DefaultLimit
	}

	if sort == "" {
		sort = SortLatest
	}

	query := url.Values{}
	query.Set("sort", sort)
	query.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	page := &Page{}
	if err := r.client.GetJSON(ctx, "/feed/public", query, page); err != nil {
		return nil, err
	}

	return page, nil
}

type likeRequest struct {
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
}

// Like marks a photo as liked by the current user.
func (r *Repository) Like(ctx context.Context, id string) error {
	return r.client.PostJSON(ctx, "/likes", likeRequest{TargetType: TargetTypePhoto, TargetID: id}, nil)
}

// Unlike removes the current user's like from a photo.
func (r *Repository) Unlike(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("target_type", TargetTypePhoto)
	query.Set("target_id", id)

	return r.client.Delete(ctx, "/likes", query, nil)
}
