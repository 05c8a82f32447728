package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fourtogenic/fourto/pkg/api"
	"github.com/fourtogenic/fourto/pkg/tokens"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("request id header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":"hello"}`))
	}))
	defer srv.Close()

	client, err := api.NewClient(srv.URL, tokens.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Value string `json:"value"`
	}

	err = client.GetJSON(context.Background(), "/thing", nil, &out)
	if err != nil {
		t.Fatal(err)
	}

	if out.Value != "hello" {
		t.Errorf("got %q want %q", out.Value, "hello")
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			check: func(err error) bool {
				var se *api.ServerError
				return errors.As(err, &se) && se.Status == 500
			},
		},
		{
			name: "credentials error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			check: func(err error) bool {
				var ce *api.CredentialsError
				return errors.As(err, &ce)
			},
		},
		{
			name: "decode error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			check: func(err error) bool {
				var de *api.DecodeError
				return errors.As(err, &de)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client, err := api.NewClient(srv.URL, tokens.NewMemoryStore())
			if err != nil {
				t.Fatal(err)
			}

			var out map[string]interface{}
			err = client.GetJSON(context.Background(), "/", nil, &out)

			if !tt.check(err) {
				t.Errorf("got %v, wrong error kind", err)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := api.NewClient(url, tokens.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}

	err = client.GetJSON(context.Background(), "/", nil, nil)

	var ne *api.NetworkError
	if !errors.As(err, &ne) {
		t.Errorf("got %v want a NetworkError", err)
	}
}

func TestClient_RefreshAndRetryOn401(t *testing.T) {
	store := tokens.NewMemoryStore()
	if err := store.Save("stale", "refresh"); err != nil {
		t.Fatal(err)
	}

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	refreshed := 0
	refresh := func(ctx context.Context) error {
		refreshed++
		return store.Save("fresh", "refresh")
	}

	client, err := api.NewClient(srv.URL, store, api.WithRefresh(refresh))
	if err != nil {
		t.Fatal(err)
	}

	err = client.GetJSON(context.Background(), "/", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if refreshed != 1 {
		t.Errorf("got %d refreshes want 1", refreshed)
	}

	if requests != 2 {
		t.Errorf("got %d requests want 2", requests)
	}
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	store := tokens.NewMemoryStore()
	if err := store.Save("stale", "refresh"); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	refresh := func(ctx context.Context) error {
		return &api.CredentialsError{}
	}

	client, err := api.NewClient(srv.URL, store, api.WithRefresh(refresh))
	if err != nil {
		t.Fatal(err)
	}

	err = client.GetJSON(context.Background(), "/", nil, nil)

	var ce *api.CredentialsError
	if !errors.As(err, &ce) {
		t.Errorf("got %v want a CredentialsError", err)
	}

	if _, ok := store.AccessToken(); ok {
		t.Error("session should be cleared after a failed refresh")
	}
}

func TestClient_NoRefreshWithoutToken(t *testing.T) {
	refreshed := 0
	refresh := func(ctx context.Context) error {
		refreshed++
		return nil
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := api.NewClient(srv.URL, tokens.NewMemoryStore(), api.WithRefresh(refresh))
	if err != nil {
		t.Fatal(err)
	}

	err = client.GetJSON(context.Background(), "/", nil, nil)

	var ce *api.CredentialsError
	if !errors.As(err, &ce) {
		t.Errorf("got %v want a CredentialsError", err)
	}

	if refreshed != 0 {
		t.Errorf("got %d refreshes want 0, no session existed", refreshed)
	}
}
