// Package storage provides the durable key-value backends the task list is
// persisted through. Backends register themselves by name; the Manager picks
// one from configuration.
package storage

import "errors"

// ErrClosed is returned by operations on a closed backend
var ErrClosed = errors.New("storage backend closed")

// Backend defines the interface that all storage backends must implement
type Backend interface {
	// Name returns the backend identifier (e.g., "sqlite", "file")
	Name() string

	// Get returns the value stored under key; ok is false when the key is absent
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any prior value
	Set(key, value string) error

	// Close releases any resources held by the backend
	Close() error
}

// BackendFactory opens a backend rooted at path. Backends that keep nothing
// on disk ignore the path.
type BackendFactory func(path string) (Backend, error)
