package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pdxmph/focusboard/internal/storage"
)

// DB is a sqlite-backed key-value store
type DB struct {
	conn *sql.DB
	path string
}

// Open opens the database at dbPath, creating it with the current schema
// when it does not exist yet
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite backend requires a path")
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if err := Initialize(dbPath); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn, path: dbPath}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		conn.Close()
		return nil, err
	}
	slog.Debug("database ready", "path", dbPath, "schema_version", version)

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Name returns the backend identifier
func (db *DB) Name() string {
	return "sqlite"
}

// Path returns the database file location
func (db *DB) Path() string {
	return db.path
}

// Get returns the value stored under key
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any prior value
func (db *DB) Set(key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE
		SET value = excluded.value,
		    updated_at = CURRENT_TIMESTAMP
	`
	if _, err := db.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// Register the sqlite backend
func init() {
	storage.Register("sqlite", func(path string) (storage.Backend, error) {
		db, err := Open(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	})
}
