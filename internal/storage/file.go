package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// FileBackend keeps all values in a single JSON object on disk. The file is
// read once when opened and rewritten in full on every Set.
type FileBackend struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
	closed bool
}

// NewFileBackend opens (or prepares to create) the JSON file at path
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("file backend requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	f := &FileBackend{
		path:   path,
		values: make(map[string]string),
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileBackend) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading storage file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		f.quarantine(err)
		return nil
	}
	if values != nil {
		f.values = values
	}
	return nil
}

// quarantine moves an unparseable file aside and leaves the backend empty,
// so a bad file costs its contents but never the startup. The moved copy is
// kept for manual recovery.
func (f *FileBackend) quarantine(parseErr error) {
	aside := f.path + ".corrupt"
	if err := os.Rename(f.path, aside); err != nil {
		slog.Warn("storage file is corrupt and could not be moved aside, starting empty",
			"path", f.path, "error", parseErr, "rename_error", err)
		return
	}
	slog.Warn("storage file is corrupt, moved aside and starting empty",
		"path", f.path, "moved_to", aside, "error", parseErr)
}

// Name returns the backend identifier
func (f *FileBackend) Name() string {
	return "file"
}

// Path returns the location of the backing file
func (f *FileBackend) Path() string {
	return f.path
}

// Get returns the value stored under key
func (f *FileBackend) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.values[key]
	return v, ok, nil
}

// Set stores value under key and flushes the whole file
func (f *FileBackend) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// flush writes to a temp file and renames it over the target so a crash
// mid-write never leaves a truncated file behind.
func (f *FileBackend) flush() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".focusboard-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing storage file: %w", err)
	}
	return nil
}

// Close marks the backend closed; values are already on disk
func (f *FileBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

// Register the file backend
func init() {
	Register("file", func(path string) (Backend, error) {
		f, err := NewFileBackend(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}
