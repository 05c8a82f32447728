// Package users wraps the profile endpoints.
package users

import (
	"context"

	"github.com/fourtogenic/fourto/pkg/api"
)

// Profile is a user profile. Email is only present on the caller's own
// profile.
type Profile struct {
	ID                string `json:"id"`
	Email             string `json:"email,omitempty"`
	Username          string `json:"username"`
	DisplayName       string `json:"displayName"`
	Bio               string `json:"bio"`
	AvatarURL         string `json:"avatarUrl"`
	PhotoCount        int    `json:"photoCount"`
	ReceivedLikeCount int    `json:"receivedLikeCount"`
}

// Update carries the editable profile fields. Nil fields are left
// untouched.
type Update struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

type Repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

// Me fetches the current user's profile.
func (r *Repository) Me(ctx context.Context) (*Profile, error) {
	profile := &Profile{}
	if err := r.client.GetJSON(ctx, "/users/me", nil, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Get fetches another user's public profile.
func (r *Repository) Get(ctx context.Context, id string) (*Profile, error) {
	profile := &Profile{}
	if err := r.client.GetJSON(ctx, "/users/"+id, nil, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// UpdateMe edits the current user's profile and returns the new state.
func (r *Repository) UpdateMe(ctx context.Context, update Update) (*Profile, error) {
	profile := &Profile{}
	if err := r.client.PatchJSON(ctx, "/users/me", update, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
