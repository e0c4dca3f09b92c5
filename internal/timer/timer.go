// Package timer implements the Pomodoro countdown: three fixed modes, a
// start/pause flag and a one-second tick that counts down to zero.
//
// A Timer never schedules anything itself. Callers schedule one tick at a time
// and hand back the generation they were given; every transition that has to
// cancel a pending tick moves the generation forward, so a late tick from an
// abandoned chain is ignored instead of decrementing twice.
//
// Reaching zero stops the timer. It does not advance to the next mode and it
// does not notify anyone.
package timer

import (
	"fmt"
	"time"
)

// Mode is one of the fixed timer presets.
type Mode string

const (
	Focus      Mode = "focus"
	ShortBreak Mode = "shortBreak"
	LongBreak  Mode = "longBreak"
)

// Modes lists the presets in display order.
var Modes = []Mode{Focus, ShortBreak, LongBreak}

// TickInterval is the wall time represented by one tick.
const TickInterval = time.Second

var durations = map[Mode]int{
	Focus:      25 * 60,
	ShortBreak: 5 * 60,
	LongBreak:  15 * 60,
}

var labels = map[Mode]string{
	Focus:      "Focus",
	ShortBreak: "Short Break",
	LongBreak:  "Long Break",
}

// Duration returns the full length of the mode in seconds.
func (m Mode) Duration() int {
	return durations[m]
}

// Label returns the human readable mode name.
func (m Mode) Label() string {
	return labels[m]
}

// Valid reports whether m is a known preset.
func (m Mode) Valid() bool {
	_, ok := durations[m]
	return ok
}

// Next returns the preset following m in display order, wrapping around.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Focus
}

// ParseMode maps a mode name to its preset.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown timer mode %q", s)
	}
	return m, nil
}

// Timer is the countdown state. The zero value is not usable; call New.
type Timer struct {
	mode      Mode
	remaining int
	running   bool
	gen       int
}

// New returns a paused timer in focus mode with the full focus duration.
func New() *Timer {
	return &Timer{mode: Focus, remaining: Focus.Duration()}
}

func (t *Timer) Mode() Mode      { return t.mode }
func (t *Timer) Remaining() int  { return t.remaining }
func (t *Timer) Running() bool   { return t.running }
func (t *Timer) Generation() int { return t.gen }

// SetMode switches to a different preset. Any pending tick is abandoned and
// the timer is paused at the new mode's full duration. Selecting the current
// mode changes nothing, so a running countdown keeps going. Unknown modes are
// ignored.
func (t *Timer) SetMode(m Mode) {
	if !m.Valid() || m == t.mode {
		return
	}
	t.mode = m
	t.stop()
	t.remaining = m.Duration()
}

// Toggle flips between running and paused and reports whether the timer is
// now running. A finished timer stays paused.
func (t *Timer) Toggle() bool {
	if t.running {
		t.Pause()
		return false
	}
	return t.Start()
}

// Start begins a new tick chain and reports whether the timer is running.
// It has no effect at zero or when already running.
func (t *Timer) Start() bool {
	if t.running {
		return true
	}
	if t.remaining <= 0 {
		return false
	}
	t.gen++
	t.running = true
	return true
}

// Pause stops the countdown without touching the remaining time.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.stop()
}

// Reset pauses the timer at the current mode's full duration.
func (t *Timer) Reset() {
	t.stop()
	t.remaining = t.mode.Duration()
}

// Tick applies one second of countdown for the tick chain identified by gen.
// It reports whether another tick should be scheduled. Ticks from an older
// chain, or arriving while paused or at zero, change nothing.
func (t *Timer) Tick(gen int) bool {
	if gen != t.gen || !t.running || t.remaining <= 0 {
		return false
	}
	t.remaining--
	if t.remaining == 0 {
		t.stop()
		return false
	}
	return true
}

// Format renders the remaining time as MM:SS.
func (t *Timer) Format() string {
	return FormatSeconds(t.remaining)
}

func (t *Timer) stop() {
	t.running = false
	t.gen++
}

// FormatSeconds renders a non-negative number of seconds as MM:SS.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
