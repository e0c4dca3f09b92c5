// Package clock provides the wall-clock capability shared by the clock
// widget and the task store's identifier generation.
package clock

import (
	"sync"
	"time"
)

// Layout is the 24-hour display format of the clock widget.
const Layout = "15:04:05"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fake is deterministic and test-friendly.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

func NewFake(start time.Time) *Fake {
	return &Fake{t: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Format renders t as HH:MM:SS in t's location.
func Format(t time.Time) string {
	return t.Format(Layout)
}
