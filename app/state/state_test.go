package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("home")
	assert.False(t, ok)

	require.NoError(t, s.Set("home", Entry{Address: "192.0.2.1"}))
	e, ok := s.Get("home")
	assert.True(t, ok)
	assert.Equal(t, "192.0.2.1", e.Address)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("home/tcp4", Entry{Address: "203.0.113.5", UpdatedAt: now}))
	require.NoError(t, s.Set("home/tcp6", Entry{Address: "2001:db8::1", UpdatedAt: now}))

	reopened, err := Open(path)
	require.NoError(t, err)

	e, ok := reopened.Get("home/tcp4")
	require.True(t, ok)
	assert.Equal(t, "203.0.113.5", e.Address)
	assert.True(t, now.Equal(e.UpdatedAt))

	e, ok = reopened.Get("home/tcp6")
	require.True(t, ok)
	assert.Equal(t, "2001:db8::1", e.Address)

	// no temp files left behind
	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("home", Entry{Address: "192.0.2.1"}))
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("home: [unclosed"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestFileStoreWriteFailureKeepsPrevious(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "missing", "state.yml"))
	require.NoError(t, err)

	assert.Error(t, s.Set("home", Entry{Address: "192.0.2.1"}))
	_, ok := s.Get("home")
	assert.False(t, ok)
}
