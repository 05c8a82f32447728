package albums_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fourtogenic/fourto/pkg/albums"
	"github.com/fourtogenic/fourto/pkg/api"
	"github.com/fourtogenic/fourto/pkg/apitest"
	"github.com/fourtogenic/fourto/pkg/tokens"
)

func repository(t *testing.T, srv *apitest.Server) *albums.Repository {
	t.Helper()

	store := tokens.NewMemoryStore()
	if err := store.Save(srv.AccessToken, srv.RefreshToken); err != nil {
		t.Fatal(err)
	}

	client, err := api.NewClient(srv.URL(), store)
	if err != nil {
		t.Fatal(err)
	}

	return albums.NewRepository(client)
}

func TestRepository_CreateAndList(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	repo := repository(t, srv)

	album, err := repo.Create(context.Background(), "Summer", "beach trip", "PRIVATE")
	if err != nil {
		t.Fatal(err)
	}

	if album.ID == "" || album.Title != "Summer" {
		t.Errorf("unexpected album: %+v", album)
	}

	page, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 1 || page.Items[0].ID != album.ID {
		t.Errorf("unexpected listing: %+v", page.Items)
	}
}

func TestRepository_Create_BlankTitle(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	repo := repository(t, srv)

	_, err := repo.Create(context.Background(), "", "", "")

	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v want a ValidationError", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	repo := repository(t, srv)

	album, err := repo.Create(context.Background(), "Summer", "", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(context.Background(), album.ID); err != nil {
		t.Fatal(err)
	}

	page, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 0 {
		t.Errorf("got %d albums want 0", len(page.Items))
	}
}
