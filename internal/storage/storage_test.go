package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdxmph/focusboard/internal/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	factory := func(string) (Backend, error) { return NewMemoryBackend(), nil }

	require.NoError(t, r.Register("memory", factory))
	assert.Error(t, r.Register("memory", factory))
	assert.Equal(t, []string{"memory"}, r.List())
}

func TestRegistryCreateUnknown(t *testing.T) {
	_, err := NewRegistry().Create("s3", "")
	assert.ErrorContains(t, err, "not registered")
}

func TestGlobalRegistryHasBuiltins(t *testing.T) {
	names := ListBackends()
	assert.Contains(t, names, "memory")
	assert.Contains(t, names, "file")
}

func TestManagerExplicitBackend(t *testing.T) {
	m, err := NewManager("memory", "")
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "memory", m.Name())
}

func TestManagerExplicitUnknown(t *testing.T) {
	_, err := NewManager("redis", "")
	assert.ErrorContains(t, err, "creating backend redis")
}

func TestManagerAutoFallsThrough(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("sqlite", func(string) (Backend, error) {
		return nil, errors.New("cgo disabled")
	}))
	require.NoError(t, r.Register("file", func(path string) (Backend, error) {
		f, err := NewFileBackend(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}))

	path := filepath.Join(t.TempDir(), "focus.db")
	m, err := newManager(r, "auto", path)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, "file", m.Name())
	assert.Equal(t, path+".json", m.Backend().(*FileBackend).Path())
}

func TestManagerAutoNothingAvailable(t *testing.T) {
	_, err := newManager(NewRegistry(), "", "")
	assert.ErrorContains(t, err, "no storage backend available")
}

func TestMemoryBackend(t *testing.T) {
	m := NewMemoryBackend()

	_, ok, err := m.Get("todos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("todos", "[]"))
	v, ok, err := m.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Set("todos", "x"), ErrClosed)
}

func TestFileBackendPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	f, err := NewFileBackend(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("todos", `[{"id":"1","text":"a","completed":false}]`))
	require.NoError(t, f.Set("todos", `[]`))
	require.NoError(t, f.Close())

	reopened, err := NewFileBackend(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileBackendCorruptFileStartsEmpty(t *testing.T) {
	for _, raw := range []string{"{oops", `{"todos": [1,2`, `{"todos": [1,2]}`, `"todos"`} {
		t.Run(raw, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.json")
			require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

			m, err := NewManager("file", path)
			require.NoError(t, err)
			defer m.Close()

			_, ok, err := m.Backend().Get("todos")
			require.NoError(t, err)
			assert.False(t, ok)

			store := todo.NewStore(m.Backend())
			store.Load()
			assert.Empty(t, store.Tasks())

			kept, err := os.ReadFile(path + ".corrupt")
			require.NoError(t, err)
			assert.Equal(t, raw, string(kept), "the bad file is kept for recovery")

			// the next write lands in a fresh file
			require.NoError(t, m.Backend().Set("todos", "[]"))
			v, ok, err := m.Backend().Get("todos")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[]", v)
		})
	}
}

func TestFileBackendRequiresPath(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)
}

func TestFileBackendClosed(t *testing.T) {
	f, err := NewFileBackend(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, _, err = f.Get("todos")
	assert.ErrorIs(t, err, ErrClosed)
}
