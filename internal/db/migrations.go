package db

import (
	"fmt"
	"log/slog"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Databases created by hand or by an older build may lack the table
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	if err := db.runUpdatedAtMigration(); err != nil {
		return err
	}

	if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamping schema version: %w", err)
	}

	return nil
}

// SchemaVersion reports the version recorded in the database file
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.conn.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// runUpdatedAtMigration adds the updated_at column to kv tables created
// before it existed. sqlite refuses a non-constant default in ALTER TABLE,
// so the column starts NULL and Set stamps it.
func (db *DB) runUpdatedAtMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name = 'updated_at'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for updated_at column: %w", err)
	}

	if count > 0 {
		return nil
	}

	slog.Info("running migration: adding kv.updated_at column")

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`); err != nil {
		return fmt.Errorf("adding updated_at column: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	slog.Info("migration completed")
	return nil
}
