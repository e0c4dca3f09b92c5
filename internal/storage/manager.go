package storage

import (
	"fmt"
	"log/slog"
)

// Preference is the order backends are tried in when none is named
var Preference = []string{"sqlite", "file", "memory"}

// Manager handles backend selection
type Manager struct {
	backend Backend
}

// NewManager opens the named backend at path. If name is empty or "auto",
// it tries Preference in order and keeps the first backend that opens.
func NewManager(name, path string) (*Manager, error) {
	return newManager(defaultRegistry, name, path)
}

func newManager(r *Registry, name, path string) (*Manager, error) {
	if name != "" && name != "auto" {
		backend, err := r.Create(name, path)
		if err != nil {
			return nil, fmt.Errorf("creating backend %s: %w", name, err)
		}
		return &Manager{backend: backend}, nil
	}

	for _, candidate := range Preference {
		b, err := r.Create(candidate, pathFor(candidate, path))
		if err != nil {
			slog.Warn("storage backend unavailable", "backend", candidate, "error", err)
			continue
		}
		return &Manager{backend: b}, nil
	}

	return nil, fmt.Errorf("no storage backend available (tried %v)", Preference)
}

// pathFor derives the file backend's location from the configured database
// path so the fallback does not write JSON into a sqlite file.
func pathFor(backend, path string) string {
	if backend == "file" && path != "" {
		return path + ".json"
	}
	return path
}

// Backend returns the current backend
func (m *Manager) Backend() Backend {
	return m.backend
}

// Name returns the name of the current backend
func (m *Manager) Name() string {
	return m.backend.Name()
}

// Close closes the current backend
func (m *Manager) Close() error {
	return m.backend.Close()
}
