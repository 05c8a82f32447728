package tokens

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/fourtogenic/fourto/pkg/api"
)

const (
	keyFile   = "auth.key"
	storeFile = "auth.store"
)

var errCorruptStore = errors.New("token store is corrupt")

type pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// FileStore persists the token pair across restarts. The pair is sealed
// with secretbox under a random key generated on first use, both files
// live in dir with 0600 permissions. Writes go through a temp file and
// rename so a crash never leaves a half-written pair behind.
//
// Reads are served from memory, only Save and Clear touch the disk.
type FileStore struct {
	mu  sync.Mutex
	dir string
	key [32]byte

	access  string
	refresh string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, &api.StorageError{Err: err}
	}

	s := &FileStore{dir: dir}

	if err := s.loadKey(); err != nil {
		return nil, &api.StorageError{Err: err}
	}

	if err := s.load(); err != nil {
		return nil, &api.StorageError{Err: err}
	}

	return s, nil
}

func (s *FileStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair{Access: access, Refresh: refresh})
	if err != nil {
		return &api.StorageError{Err: err}
	}

	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return &api.StorageError{Err: err}
	}

	sealed := secretbox.Seal(nonce[:], data, &nonce, &s.key)

	path := filepath.Join(s.dir, storeFile)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, sealed, 0600); err != nil {
		return &api.StorageError{Err: err}
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &api.StorageError{Err: err}
	}

	s.access = access
	s.refresh = refresh

	return nil
}

func (s *FileStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.access, s.access != ""
}

func (s *FileStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh, s.refresh != ""
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, storeFile))
	if err != nil && !os.IsNotExist(err) {
		return &api.StorageError{Err: err}
	}

	s.access = ""
	s.refresh = ""

	return nil
}

func (s *FileStore) loadKey() error {
	path := filepath.Join(s.dir, keyFile)

	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != len(s.key) {
			return errCorruptStore
		}
		copy(s.key[:], data)
		return nil
	}

	if !os.IsNotExist(err) {
		return err
	}

	if _, err := io.ReadFull(rand.Reader, s.key[:]); err != nil {
		return err
	}

	return os.WriteFile(path, s.key[:], 0600)
}

func (s *FileStore) load() error {
	sealed, err := os.ReadFile(filepath.Join(s.dir, storeFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if len(sealed) < 24 {
		return errCorruptStore
	}

	var nonce [24]byte
	copy(nonce[:], sealed[:24])

	data, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return errCorruptStore
	}

	var p pair
	if err := json.Unmarshal(data, &p); err != nil {
		return errCorruptStore
	}

	s.access = p.Access
	s.refresh = p.Refresh

	return nil
}
