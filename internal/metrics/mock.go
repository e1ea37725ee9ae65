package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	allocationRuns      int
	replacementRuns     int
	lockContention      int
	sweepRuns           int
	sweepFailures       int
	allocationDurations []float64
	notifSent           int
	notifFailed         int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		allocationDurations: make([]float64, 0),
	}
}

func (m *Mock) IncAllocationRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocationRuns++
}

func (m *Mock) IncReplacementRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replacementRuns++
}

func (m *Mock) IncLockContention() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockContention++
}

func (m *Mock) IncSweepRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepRuns++
}

func (m *Mock) IncSweepFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepFailures++
}

func (m *Mock) ObserveAllocationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocationDurations = append(m.allocationDurations, duration)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// AllocationRuns returns the number of times IncAllocationRuns was called.
func (m *Mock) AllocationRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocationRuns
}

// ReplacementRuns returns the number of times IncReplacementRuns was called.
func (m *Mock) ReplacementRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replacementRuns
}

// LockContention returns the number of times IncLockContention was called.
func (m *Mock) LockContention() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lockContention
}

// SweepRuns returns the number of times IncSweepRuns was called.
func (m *Mock) SweepRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepRuns
}

// SweepFailures returns the number of times IncSweepFailures was called.
func (m *Mock) SweepFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepFailures
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
