// Package api contains the HTTP transport shared by all Fourtogenic
// repositories: request signing, the error taxonomy and the single
// refresh-and-retry policy for expired sessions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// TokenStore is the part of the token store the transport needs: reading
// the access token for signing and clearing it when a session dies.
type TokenStore interface {
	TokenSource
	Clear() error
}

// RefreshFunc exchanges the stored refresh token for a new session.
type RefreshFunc func(ctx context.Context) error

// Client performs JSON requests against the Fourtogenic API.
//
// When a signed request comes back 401 and a refresh function is
// configured, the client refreshes once and retries once. If the refresh
// fails the stored session is cleared and the caller sees a
// CredentialsError. Requests issued without a stored token never trigger
// a refresh.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenStore
	refresh RefreshFunc
	limiter *rate.Limiter
	device  string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The caller is
// responsible for wiring a Signer into its transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRefresh enables the refresh-and-retry policy for 401 responses.
func WithRefresh(fn RefreshFunc) Option {
	return func(c *Client) {
		c.refresh = fn
	}
}

// WithRateLimit caps outgoing requests at roughly rps per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithDeviceID attaches a stable X-Device-ID header to every request.
func WithDeviceID(id string) Option {
	return func(c *Client) {
		c.device = id
	}
}

func NewClient(baseURL string, tokens TokenStore, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ValidationError{Field: "base url", Reason: err.Error()}
	}

	client := &Client{
		base:   base,
		tokens: tokens,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: NewSigner(tokens, nil),
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// GetJSON performs a GET request and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

// PostJSON performs a POST request with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ValidationError{Field: "request body", Reason: err.Error()}
	}

	return c.do(ctx, http.MethodPost, path, nil, "application/json", body, out)
}

// PostForm performs a POST request with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, "application/x-www-form-urlencoded", []byte(form.Encode()), out)
}

// PostRaw performs a POST request with a prebuilt body, used for multipart
// uploads.
func (c *Client) PostRaw(ctx context.Context, path, contentType string, body []byte, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, contentType, body, out)
}

// PatchJSON performs a PATCH request with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ValidationError{Field: "request body", Reason: err.Error()}
	}

	return c.do(ctx, http.MethodPatch, path, nil, "application/json", body, out)
}

// Delete performs a DELETE request. out may be nil.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, query, "", nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Err: err}
		}
	}

	hadToken := false
	if c.tokens != nil {
		_, hadToken = c.tokens.AccessToken()
	}

	resp, err := c.send(ctx, method, path, query, contentType, body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && hadToken && c.refresh != nil {
		drain(resp)

		if err := c.refresh(ctx); err != nil {
			if c.tokens != nil {
				_ = c.tokens.Clear()
			}
			return &CredentialsError{}
		}

		resp, err = c.send(ctx, method, path, query, contentType, body)
		if err != nil {
			return &NetworkError{Err: err}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			if c.tokens != nil {
				_ = c.tokens.Clear()
			}
			return &CredentialsError{}
		}
	}

	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Err: err}
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body []byte) (*http.Response, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", ksuid.New().String())
	if c.device != "" {
		req.Header.Set("X-Device-ID", c.device)
	}

	return c.http.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
