package api

import "net/http"

// TokenSource returns the current access token, if any. Implementations
// must be a bounded local read, the signer runs on every request.
type TokenSource interface {
	AccessToken() (string, bool)
}

// Signer is an http.RoundTripper that attaches a bearer token to outgoing
// requests when one exists. It never triggers a refresh, that is the
// client's job when a 401 comes back.
type Signer struct {
	tokens TokenSource
	base   http.RoundTripper
}

func NewSigner(tokens TokenSource, base http.RoundTripper) *Signer {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Signer{tokens: tokens, base: base}
}

func (s *Signer) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := s.tokens.AccessToken()
	if !ok {
		return s.base.RoundTrip(req)
	}

	signed := req.Clone(req.Context())
	signed.Header.Set("Authorization", "Bearer "+token)

	return s.base.RoundTrip(signed)
}
