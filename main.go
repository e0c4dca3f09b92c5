package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pdxmph/focusboard/internal/clock"
	"github.com/pdxmph/focusboard/internal/config"
	"github.com/pdxmph/focusboard/internal/db"
	"github.com/pdxmph/focusboard/internal/storage"
	"github.com/pdxmph/focusboard/internal/timer"
	"github.com/pdxmph/focusboard/internal/todo"
	"github.com/pdxmph/focusboard/internal/tui"
)

// CLI holds the command line flags. Flags override the config file.
type CLI struct {
	Config   string `short:"c" help:"Configuration file path (default ~/.config/focusboard/config.toml)" type:"path"`
	Backend  string `short:"b" help:"Storage backend: auto, sqlite, file or memory"`
	DB       string `name:"db" help:"Storage location for the task list" type:"path"`
	LogFile  string `name:"log-file" help:"Write diagnostics to this file" type:"path"`
	Verbose  bool   `short:"v" help:"Enable debug logging"`
	Init     bool   `help:"Write the default configuration file and exit"`
	Fixtures string `help:"Create a sqlite database with sample tasks at this path and exit" type:"path"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("focusboard"),
		kong.Description("A wall clock, a focus timer and a task list in one terminal page."),
	)

	if err := run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cli CLI) error {
	if cli.Fixtures != "" {
		if err := db.CreateFixturesDatabase(cli.Fixtures); err != nil {
			return err
		}
		fmt.Printf("Created fixtures database at %s\n", cli.Fixtures)
		return nil
	}

	if cli.Init {
		return writeDefaultConfig(cli.Config)
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	mode, err := timer.ParseMode(cfg.Timer.Mode)
	if err != nil {
		return fmt.Errorf("config [timer] mode: %w", err)
	}

	logger, closeLog, err := setupLogging(cfg, cli.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	manager, err := storage.NewManager(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer manager.Close()
	logger.Info("storage ready", "backend", manager.Name(), "path", cfg.Storage.Path)

	store := todo.NewStore(manager.Backend(), todo.WithLogger(logger))
	store.Load()

	model := tui.New(store, clock.Real{}, logger, tui.WithStartMode(mode))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides on top
func loadConfig(cli CLI) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cli.Config != "" {
		cfg, err = config.LoadFrom(cli.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cli.Backend != "" {
		cfg.Storage.Backend = cli.Backend
	}
	if cli.DB != "" {
		cfg.Storage.Path = config.ExpandPath(cli.DB)
	}
	if cli.LogFile != "" {
		cfg.Log.File = config.ExpandPath(cli.LogFile)
	}
	if cli.Verbose {
		cfg.Log.Level = "debug"
	}

	if dir := filepath.Dir(cfg.Storage.Path); cfg.Storage.Path != "" && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return cfg, nil
}

func writeDefaultConfig(path string) error {
	cfg := config.Default()
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}

// setupLogging routes diagnostics to the log file; the alt screen owns stdout
func setupLogging(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}

	if cfg.Log.File == "" {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(cfg.Log.File, "focusboard")
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, func() { f.Close() }, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
