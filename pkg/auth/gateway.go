// Package auth performs login, registration and token refresh against the
// Fourtogenic API and keeps the token store in sync with the session
// lifecycle: logged out, logged in, back to logged out on logout or an
// unrecoverable 401.
package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/fourtogenic/fourto/pkg/api"
	"github.com/fourtogenic/fourto/pkg/auth/internal"
	"github.com/fourtogenic/fourto/pkg/tokens"
)

// Session is the authenticated identity of the current user.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// Gateway talks to the auth endpoints. Its client must not have a refresh
// policy configured, refreshing inside a refresh would loop.
type Gateway struct {
	client *api.Client
	store  tokens.Store
}

func NewGateway(client *api.Client, store tokens.Store) *Gateway {
	return &Gateway{client: client, store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with email and password, persists the returned token
// pair and returns the session. Blank inputs fail with a ValidationError
// before any network call. A 4xx response means the credentials were
// rejected.
//
// The backend may return a single accessToken without a refresh token, in
// which case the access token is stored for both halves of the pair so the
// pair invariant holds.
func (g *Gateway) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return nil, &api.ValidationError{Field: "email", Reason: "must not be blank"}
	}

	if password == "" {
		return nil, &api.ValidationError{Field: "password", Reason: "must not be blank"}
	}

	var resp loginResponse
	err := g.client.PostJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, asCredentials(err)
	}

	if resp.AccessToken == "" {
		return nil, &api.DecodeError{Err: errors.New("login response missing access token")}
	}

	refresh := resp.RefreshToken
	if refresh == "" {
		refresh = resp.AccessToken
	}

	if err := g.store.Save(resp.AccessToken, refresh); err != nil {
		return nil, err
	}

	return &Session{
		UserID:       resp.User.ID,
		AccessToken:  resp.AccessToken,
		RefreshToken: refresh,
	}, nil
}

type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type registerResponse struct {
	Message string `json:"message"`
}

// Register creates an account. All fields are validated before any network
// call. A 400 or 409 means the account conflicts with an existing one.
func (g *Gateway) Register(ctx context.Context, email, username, password, displayName string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	if !internal.ValidateEmail(email) {
		return &api.ValidationError{Field: "email", Reason: "invalid email"}
	}

	if !internal.ValidateUsername(username) {
		return &api.ValidationError{Field: "username", Reason: "invalid username"}
	}

	if password == "" {
		return &api.ValidationError{Field: "password", Reason: "must not be blank"}
	}

	if strings.TrimSpace(displayName) == "" {
		return &api.ValidationError{Field: "display name", Reason: "must not be blank"}
	}

	req := registerRequest{
		Email:       email,
		Username:    username,
		Password:    password,
		DisplayName: displayName,
	}

	var resp registerResponse
	err := g.client.PostJSON(ctx, "/auth/register", req, &resp)
	if err != nil {
		var se *api.ServerError
		if errors.As(err, &se) && (se.Status == 400 || se.Status == 409) {
			return &api.ConflictError{Message: resp.Message}
		}
		return err
	}

	return nil
}

// Refresh exchanges the stored refresh token for a new access token and
// persists the new pair. Callers must treat any failure as the end of the
// session. If the response carries no new refresh token the stored one is
// kept.
func (g *Gateway) Refresh(ctx context.Context) error {
	refresh, ok := g.store.RefreshToken()
	if !ok {
		return &api.CredentialsError{}
	}

	form := url.Values{}
	form.Set("refreshToken", refresh)

	var resp loginResponse
	err := g.client.PostForm(ctx, "/auth/refresh", form, &resp)
	if err != nil {
		return asCredentials(err)
	}

	if resp.AccessToken == "" {
		return &api.DecodeError{Err: errors.New("refresh response missing access token")}
	}

	if resp.RefreshToken != "" {
		refresh = resp.RefreshToken
	}

	return g.store.Save(resp.AccessToken, refresh)
}

// Logout drops the stored session.
func (g *Gateway) Logout() error {
	return g.store.Clear()
}

// LoggedIn reports whether a session is stored.
func (g *Gateway) LoggedIn() bool {
	_, ok := g.store.AccessToken()
	return ok
}

// asCredentials folds any 4xx server response into a CredentialsError.
// Network, decode and storage errors pass through untouched.
func asCredentials(err error) error {
	var se *api.ServerError
	if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
		return &api.CredentialsError{}
	}

	return err
}
