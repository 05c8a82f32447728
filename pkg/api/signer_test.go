package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fourtogenic/fourto/pkg/api"
	"github.com/fourtogenic/fourto/pkg/tokens"
)

func TestSigner_AttachesBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	store := tokens.NewMemoryStore()
	if err := store.Save("token-123", "refresh"); err != nil {
		t.Fatal(err)
	}

	client := &http.Client{Transport: api.NewSigner(store, nil)}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got != "Bearer token-123" {
		t.Errorf("got %q want %q", got, "Bearer token-123")
	}
}

func TestSigner_PassThroughWithoutToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: api.NewSigner(tokens.NewMemoryStore(), nil)}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got != "" {
		t.Errorf("got %q want no authorization header", got)
	}
}

func TestSigner_DoesNotMutateOriginalRequest(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	store := tokens.NewMemoryStore()
	if err := store.Save("token", "refresh"); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("GET", srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	client := &http.Client{Transport: api.NewSigner(store, nil)}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if req.Header.Get("Authorization") != "" {
		t.Error("signer mutated the caller's request")
	}
}
