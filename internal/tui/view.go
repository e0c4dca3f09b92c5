package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/pdxmph/focusboard/internal/clock"
	"github.com/pdxmph/focusboard/internal/timer"
)

const (
	// sidebar sits beside the timer only when the terminal is at least this wide
	wideLayoutMin = 80
	sidebarMax    = 44
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	left := lipgloss.JoinVertical(lipgloss.Center,
		m.renderClock(),
		m.renderTimer(),
	)
	sidebar := m.renderTasks(m.sidebarWidth())

	var content string
	if m.width >= wideLayoutMin {
		leftWidth := m.width - m.sidebarWidth() - 2
		left = lipgloss.Place(leftWidth, lipgloss.Height(sidebar), lipgloss.Center, lipgloss.Center, left)
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, sidebar)
	} else {
		left = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, left)
		content = lipgloss.JoinVertical(lipgloss.Left, left, sidebar)
	}

	lines := []string{content}
	if m.status != "" {
		lines = append(lines, errorStyle.Render(" "+m.status))
	}
	lines = append(lines, mutedStyle.Render(m.renderHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) sidebarWidth() int {
	if m.width < wideLayoutMin {
		return m.width
	}
	w := m.width / 3
	if w > sidebarMax {
		w = sidebarMax
	}
	return w
}

// renderClock renders the wall clock
func (m Model) renderClock() string {
	return clockStyle.Render(clock.Format(m.now))
}

// renderTimer renders the countdown card: remaining time, controls, mode selector
func (m Model) renderTimer() string {
	var lines []string

	countdown := countdownStyle.Render(m.timer.Format())
	switch {
	case m.timer.Running():
		countdown = runningStyle.Render(countdown)
	case m.timer.Remaining() == 0:
		countdown = finishedStyle.Render(countdown)
	}
	lines = append(lines, countdown, "")

	control := "▶ start"
	if m.timer.Running() {
		control = "❚❚ pause"
	}
	lines = append(lines, control+"   ↺ reset", "")

	var modes []string
	for i, mode := range timer.Modes {
		label := fmt.Sprintf("%d ( ) %s", i+1, mode.Label())
		if mode == m.timer.Mode() {
			label = activeModeStyle.Render(fmt.Sprintf("%d (•) %s", i+1, mode.Label()))
		}
		modes = append(modes, label)
	}
	lines = append(lines, strings.Join(modes, "  "))

	style := borderStyle
	if m.focus == focusTimer {
		style = focusedBorderStyle
	}
	return style.Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// renderTasks renders the task sidebar
func (m Model) renderTasks(width int) string {
	inner := width - 4 // border and padding
	if inner < 10 {
		inner = 10
	}

	var lines []string
	header := "Tasks"
	if n := m.store.Len(); n > 0 {
		header += fmt.Sprintf(" (%d left)", m.store.Remaining())
	}
	lines = append(lines, headerStyle.Render(header))
	lines = append(lines, m.input.View())
	lines = append(lines, strings.Repeat("─", inner))

	tasks := m.store.Tasks()
	if len(tasks) == 0 {
		lines = append(lines, "", lipgloss.PlaceHorizontal(inner, lipgloss.Center, mutedStyle.Render("No tasks yet")))
	}

	// Calculate visible range
	visible := m.height - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}

	for i := start; i < len(tasks) && i < start+visible; i++ {
		t := tasks[i]

		box := "[ ] "
		if t.Completed {
			box = "[x] "
		}
		text := runewidth.Truncate(strings.ReplaceAll(t.Text, "\n", " "), inner-len(box), "…")

		line := box + text
		switch {
		case m.focus == focusTasks && i == m.selected:
			line = selectedStyle.Render(line)
		case t.Completed:
			line = box + completedStyle.Render(text)
		}
		lines = append(lines, line)
	}

	style := borderStyle
	if m.focus != focusTimer {
		style = focusedBorderStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	switch m.focus {
	case focusInput:
		return " Type task • Enter: add • Esc: back to list • Tab: timer • Ctrl+C: quit"
	case focusTasks:
		return " j/k: navigate • space/x: done • d: delete • a: add • p: start/pause • 1-3: mode • Tab: input • q: quit"
	default:
		return " space: start/pause • r: reset • 1-3/m: mode • a: add task • Tab: tasks • q: quit"
	}
}
