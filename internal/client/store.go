package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialStore keeps the access token between calls (and, for FileStore,
// between runs of the CLI).
//
// Get returns "" with a nil error when nothing is stored.
type CredentialStore interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// MemoryStore holds the token in memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.Set("")
}

// FileStore keeps the token in a single file readable only by the owner.
//
// FILE PERMISSIONS:
// The token is a bearer credential: anyone who can read it can act as the
// user until it expires. The file is written 0600 and its directory 0700.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path. Nothing is touched on
// disk until Set is called.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path is the file the token is stored in.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Get() (string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *FileStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	// WriteFile only applies the mode when it creates the file, so tighten
	// an existing file explicitly.
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Chmod(f.path, 0o600); err != nil {
		return fmt.Errorf("securing token file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
