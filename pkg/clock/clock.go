package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed is a settable clock for tests
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed creates a clock frozen at t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}
