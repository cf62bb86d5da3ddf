// Package state persists the last address applied by each account.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Entry struct {
	Address   string    `yaml:"address"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Store keeps one Entry per account key.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, e Entry) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	return e, ok
}

func (m *MemoryStore) Set(key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = e
	return nil
}

// FileStore is a MemoryStore written through to a YAML file on every Set.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
}

// Open loads path, starting empty when the file does not exist yet.
func Open(path string) (*FileStore, error) {
	f := &FileStore{path: path, entries: make(map[string]Entry)}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &f.entries); err != nil {
		return nil, fmt.Errorf("state file %s: %w", path, err)
	}
	if f.entries == nil {
		f.entries = make(map[string]Entry)
	}
	return f, nil
}

func (f *FileStore) Get(key string) (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[key]
	return e, ok
}

func (f *FileStore) Set(key string, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.entries[key]
	f.entries[key] = e
	if err := f.flush(); err != nil {
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return err
	}
	return nil
}

// flush replaces the file atomically.
func (f *FileStore) flush() error {
	b, err := yaml.Marshal(f.entries)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
