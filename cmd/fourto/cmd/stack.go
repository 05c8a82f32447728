package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fourtogenic/fourto/pkg/albums"
	"github.com/fourtogenic/fourto/pkg/api"
	"github.com/fourtogenic/fourto/pkg/auth"
	"github.com/fourtogenic/fourto/pkg/conf"
	"github.com/fourtogenic/fourto/pkg/feed"
	"github.com/fourtogenic/fourto/pkg/photos"
	"github.com/fourtogenic/fourto/pkg/tokens"
	"github.com/fourtogenic/fourto/pkg/users"
)

const defaultAPIURL = "https://fourtogenic-server-production.up.railway.app"

const deviceFile = "device.id"

// stack wires the whole SDK for a command invocation: token store,
// gateway, signed client and the repositories.
type stack struct {
	conf    *conf.ClientConf
	store   *tokens.FileStore
	gateway *auth.Gateway
	feed    *feed.Repository
	photos  *photos.Repository
	albums  *albums.Repository
	users   *users.Repository
}

func newStack() (*stack, error) {
	cfg, err := loadConf()
	if err != nil {
		return nil, err
	}

	store, err := tokens.NewFileStore(cfg.State.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open token store")
	}

	device, err := deviceID(cfg.State.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load device id")
	}

	// The gateway gets its own client without a refresh policy, refreshing
	// inside a refresh would loop.
	authClient, err := api.NewClient(cfg.API.URL, store,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithDeviceID(device),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create auth client")
	}

	gateway := auth.NewGateway(authClient, store)

	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout()),
		api.WithDeviceID(device),
		api.WithRefresh(gateway.Refresh),
	}
	if cfg.API.RequestsPerSecond > 0 {
		opts = append(opts, api.WithRateLimit(cfg.API.RequestsPerSecond))
	}

	client, err := api.NewClient(cfg.API.URL, store, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create api client")
	}

	return &stack{
		conf:    cfg,
		store:   store,
		gateway: gateway,
		feed:    feed.NewRepository(client),
		photos:  photos.NewRepository(client),
		albums:  albums.NewRepository(client),
		users:   users.NewRepository(client),
	}, nil
}

func loadConf() (*conf.ClientConf, error) {
	path := file
	if path == "" {
		p, err := conf.DefaultFile()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := &conf.ClientConf{}

	err := conf.Load(path, cfg)
	if err != nil && (file != "" || !os.IsNotExist(err)) {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if cfg.API.URL == "" {
		cfg.API.URL = defaultAPIURL
	}

	if cfg.State.Dir == "" {
		dir, err := conf.DefaultStateDir()
		if err != nil {
			return nil, err
		}
		cfg.State.Dir = dir
	}

	return cfg, nil
}

// deviceID returns the per-install id, creating it on first run.
func deviceID(dir string) (string, error) {
	path := filepath.Join(dir, deviceFile)

	data, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	id := uuid.NewString()

	if err := os.WriteFile(path, []byte(id), 0600); err != nil {
		return "", err
	}

	return id, nil
}
