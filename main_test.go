package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdxmph/focusboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := config.Default()
	cfg.Storage.Backend = "file"
	cfg.Storage.Path = filepath.Join(dir, "from-file.db")
	require.NoError(t, cfg.SaveTo(path))

	got, err := loadConfig(CLI{
		Config:  path,
		Backend: "memory",
		Verbose: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "memory", got.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "from-file.db"), got.Storage.Path)
	assert.Equal(t, "debug", got.Log.Level)

	got, err = loadConfig(CLI{Config: path, DB: filepath.Join(dir, "data", "tasks.db")})
	require.NoError(t, err)
	assert.Equal(t, "file", got.Storage.Backend)
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusboard", "config.toml")

	require.NoError(t, writeDefaultConfig(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	assert.ErrorContains(t, writeDefaultConfig(path), "already exists")
}

func TestRunFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")
	require.NoError(t, run(CLI{Fixtures: path}))
	assert.FileExists(t, path)
}

func TestRunRejectsUnknownTimerMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(dir, "focus.db")
	cfg.Timer.Mode = "nap"
	require.NoError(t, cfg.SaveTo(path))

	err := run(CLI{Config: path})
	assert.ErrorContains(t, err, `unknown timer mode "nap"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestSetupLoggingWritesFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "focusboard.log")

	logger, closeLog, err := setupLogging(cfg, false)
	require.NoError(t, err)
	logger.Info("hello")
	closeLog()

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
