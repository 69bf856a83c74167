// Package clock abstracts wall-clock time so watchdog thresholds can be
// exercised in tests without waiting for them.
package clock

import (
	"sync"
	"time"
)

// Clock provides the wall-clock operations the engine's watchdogs need.
type Clock interface {
	// Now returns the current time according to this clock.
	Now() time.Time
	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// After wraps time.After.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// MockClock implements Clock with a controllable time value. Channels returned
// by After fire when Advance or Set moves the clock past their deadline.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []waiter
}

// NewMockClock creates a new mock clock initialized to the given time.
// If t is zero, the clock is initialized to the current time.
func NewMockClock(t time.Time) *MockClock {
	if t.IsZero() {
		t = time.Now()
	}
	return &MockClock{current: t}
}

// Now returns the current time according to this mock clock.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// After returns a channel fed when the mock time reaches now+d.
func (m *MockClock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan time.Time, 1)
	deadline := m.current.Add(d)
	if d <= 0 {
		ch <- m.current
		return ch
	}
	m.waiters = append(m.waiters, waiter{deadline: deadline, ch: ch})
	return ch
}

// Advance moves the clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
	m.fireLocked()
}

// Set sets the clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
	m.fireLocked()
}

// Pending returns the number of After channels that have not fired yet.
func (m *MockClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

func (m *MockClock) fireLocked() {
	kept := m.waiters[:0]
	for _, w := range m.waiters {
		if !m.current.Before(w.deadline) {
			w.ch <- m.current
			continue
		}
		kept = append(kept, w)
	}
	m.waiters = kept
}
