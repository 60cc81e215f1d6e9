package engine

import (
	"sync"
	"time"
)

// Clock supplies the time base for the scheduler and the simulation loop
type Clock interface {
	Now() time.Time
}

// MonotonicClock reads the system clock; time.Now carries a monotonic reading
type MonotonicClock struct{}

// NewMonotonicClock creates a clock backed by the system time
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{}
}

// Now returns the current time with monotonic clock reading
func (c *MonotonicClock) Now() time.Time {
	return time.Now()
}

// MockClock provides a controllable time source for deterministic scheduling
type MockClock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockClock creates a mock clock frozen at startTime
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{
		currentTime: startTime,
	}
}

// Now returns the current mocked time
func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set moves the clock to t
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
