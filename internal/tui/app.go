package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pdxmph/focusboard/internal/clock"
	"github.com/pdxmph/focusboard/internal/timer"
	"github.com/pdxmph/focusboard/internal/todo"
)

type focusArea int

const (
	focusTimer focusArea = iota
	focusTasks
	focusInput
)

// clockTickMsg carries the wall time of a clock refresh
type clockTickMsg time.Time

// timerTickMsg is one second of countdown for the tick chain gen
type timerTickMsg struct {
	gen int
}

// Model composes the clock, the countdown timer and the task list. The
// three share nothing but the screen.
type Model struct {
	store    *todo.Store
	timer    *timer.Timer
	clock    clock.Clock
	logger   *slog.Logger
	now      time.Time
	input    textinput.Model
	focus    focusArea
	selected int
	width    int
	height   int
	status   string
}

// Option configures the page model.
type Option func(*Model)

// WithStartMode selects the timer preset shown at startup.
func WithStartMode(mode timer.Mode) Option {
	return func(m *Model) {
		m.timer.SetMode(mode)
	}
}

// New creates the page model. The store should already be loaded.
func New(store *todo.Store, c clock.Clock, logger *slog.Logger, opts ...Option) Model {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 200
	ti.Width = 30
	ti.Prompt = "+ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	m := Model{
		store:  store,
		timer:  timer.New(),
		clock:  c,
		logger: logger,
		now:    c.Now(),
		input:  ti,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the clock's once-per-second refresh
func (m Model) Init() tea.Cmd {
	return clockTick()
}

func clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func timerTick(gen int) tea.Cmd {
	return tea.Tick(timer.TickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.sidebarWidth() - 8
		return m, nil

	case clockTickMsg:
		m.now = m.clock.Now()
		return m, clockTick()

	case timerTickMsg:
		if m.timer.Tick(msg.gen) {
			return m, timerTick(msg.gen)
		}
		if m.timer.Remaining() == 0 && msg.gen+1 == m.timer.Generation() {
			m.logger.Info("timer finished", "mode", m.timer.Mode())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusTasks:
			return m.updateTasks(msg)
		default:
			return m.updateTimer(msg)
		}
	}

	return m, nil
}

// updateTimer handles keys while the timer card has focus
func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space", "enter":
		return m.toggleTimer()
	}
	return m.updateCommon(msg)
}

// updateTasks handles keys while the task list has focus
func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.store.Tasks()

	switch msg.String() {
	case "j", "down":
		if m.selected < len(tasks)-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case " ", "space", "x":
		if len(tasks) > 0 && m.selected < len(tasks) {
			_, err := m.store.Toggle(tasks[m.selected].ID)
			m.setSaveStatus(err)
		}
		return m, nil

	case "d", "delete":
		if len(tasks) > 0 && m.selected < len(tasks) {
			_, err := m.store.Delete(tasks[m.selected].ID)
			m.setSaveStatus(err)
			m.selected = m.ensureValidSelection()
		}
		return m, nil
	}
	return m.updateCommon(msg)
}

// updateCommon handles keys shared by the timer and task list
func (m Model) updateCommon(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		if m.focus == focusTimer {
			m.focus = focusTasks
			return m, nil
		}
		return m.focusInput()

	case "a", "i":
		return m.focusInput()

	case "p":
		return m.toggleTimer()

	case "r":
		m.timer.Reset()
		return m, nil

	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		m.timer.SetMode(timer.Modes[idx])
		return m, nil

	case "m":
		m.timer.SetMode(m.timer.Mode().Next())
		return m, nil
	}
	return m, nil
}

// updateInput handles keys while typing a new task
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		added, err := m.store.Add(m.input.Value())
		if added {
			m.input.Reset()
			m.selected = m.store.Len() - 1
		}
		m.setSaveStatus(err)
		return m, nil

	case "esc":
		m.input.Blur()
		m.focus = focusTasks
		return m, nil

	case "tab":
		m.input.Blur()
		m.focus = focusTimer
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) focusInput() (tea.Model, tea.Cmd) {
	m.focus = focusInput
	cmd := m.input.Focus()
	return m, cmd
}

// toggleTimer flips start/pause and opens a fresh tick chain when starting.
// A finished timer refuses to start and nothing is logged.
func (m Model) toggleTimer() (tea.Model, tea.Cmd) {
	wasRunning := m.timer.Running()
	if m.timer.Toggle() {
		m.logger.Debug("timer started", "mode", m.timer.Mode(), "remaining", m.timer.Remaining())
		return m, timerTick(m.timer.Generation())
	}
	if wasRunning {
		m.logger.Debug("timer paused", "mode", m.timer.Mode(), "remaining", m.timer.Remaining())
	}
	return m, nil
}

func (m *Model) setSaveStatus(err error) {
	if err != nil {
		m.status = fmt.Sprintf("Could not save tasks: %v", err)
		return
	}
	m.status = ""
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	n := m.store.Len()
	if n == 0 || m.selected < 0 {
		return 0
	}
	if m.selected >= n {
		return n - 1
	}
	return m.selected
}
