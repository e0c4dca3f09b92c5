package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pdxmph/focusboard/internal/storage"
	"github.com/pdxmph/focusboard/internal/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "sub", "focus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenCreatesDatabase(t *testing.T) {
	database := openTemp(t)

	assert.Equal(t, "sqlite", database.Name())
	_, ok, err := database.Get("todos")
	require.NoError(t, err)
	assert.False(t, ok)

	version, err := database.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestGetSetOverwrite(t *testing.T) {
	database := openTemp(t)

	_, ok, err := database.Get("todos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.Set("todos", `[{"id":"1","text":"a","completed":false}]`))
	require.NoError(t, database.Set("todos", `[]`))

	v, ok, err := database.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	var rows int
	require.NoError(t, database.conn.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows))
	assert.Equal(t, 1, rows, "overwrite must upsert, not append")
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.db")

	database, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, database.Set("todos", "[]"))
	require.NoError(t, database.Close())

	database, err = Open(path)
	require.NoError(t, err)
	defer database.Close()

	v, ok, err := database.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestInitializeRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.db")
	require.NoError(t, Initialize(path))
	assert.ErrorContains(t, Initialize(path), "already exists")
}

func TestMigrationAddsUpdatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO kv (key, value) VALUES ('todos', '[]')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('kv') WHERE name = 'updated_at'`,
	).Scan(&count))
	assert.Equal(t, 1, count)

	version, err := database.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	v, ok, err := database.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	require.NoError(t, database.Set("todos", `[{"id":"1","text":"x","completed":true}]`))
}

func TestRegisteredAsStorageBackend(t *testing.T) {
	m, err := storage.NewManager("sqlite", filepath.Join(t.TempDir(), "focus.db"))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "sqlite", m.Name())
}

func TestTaskStoreOverSqlite(t *testing.T) {
	database := openTemp(t)

	s := todo.NewStore(database)
	s.Load()
	_, err := s.Add("Buy milk")
	require.NoError(t, err)

	reloaded := todo.NewStore(database)
	reloaded.Load()
	assert.Equal(t, s.Tasks(), reloaded.Tasks())
}

func TestCreateFixturesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")
	require.NoError(t, CreateFixturesDatabase(path))

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	s := todo.NewStore(database)
	s.Load()
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 3, s.Remaining())
}
