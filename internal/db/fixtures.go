package db

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pdxmph/focusboard/internal/todo"
)

// CreateFixturesDatabase creates a database holding a sample task list
func CreateFixturesDatabase(dbPath string) error {
	if err := Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	database, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer database.Close()

	fixtures := []struct {
		text      string
		completed bool
	}{
		{"Review pull requests", true},
		{"Write weekly status update", false},
		{"Plan sprint demo", false},
		{"Book dentist appointment", false},
		{"Read chapter 4 of the design book", true},
	}

	base := time.Now().Add(-time.Hour).UnixMilli()
	tasks := make([]todo.Task, 0, len(fixtures))
	for i, f := range fixtures {
		tasks = append(tasks, todo.Task{
			ID:        strconv.FormatInt(base+int64(i), 10),
			Text:      f.text,
			Completed: f.completed,
		})
	}

	raw, err := todo.Encode(tasks)
	if err != nil {
		return err
	}
	if err := database.Set(todo.StorageKey, raw); err != nil {
		return fmt.Errorf("writing fixture tasks: %w", err)
	}

	return nil
}
