// Package suggestion contains offset suggestion use cases.
package suggestion

import "sync"

// RunTracker tracks the in-flight suggestion run so status queries can
// answer without touching the database.
type RunTracker interface {
	// IsRunning reports whether a suggestion run is in flight.
	IsRunning() bool

	// Begin records a new in-flight run.
	Begin(jobID string)

	// Finish clears the in-flight run.
	Finish()

	// JobID returns the most recently started run's ID.
	JobID() string

	// SetError records why the last run went wrong.
	SetError(processingError *ProcessingError)

	// LastError returns the last recorded failure, if any.
	LastError() *ProcessingError

	// ClearError forgets the last recorded failure.
	ClearError()
}

// InMemoryRunTracker is a thread-safe in-memory implementation of RunTracker.
type InMemoryRunTracker struct {
	mu        sync.RWMutex
	running   bool
	jobID     string
	lastError *ProcessingError
}

// NewInMemoryRunTracker creates a new InMemoryRunTracker instance.
func NewInMemoryRunTracker() *InMemoryRunTracker {
	return &InMemoryRunTracker{}
}

// IsRunning reports whether a suggestion run is in flight.
func (t *InMemoryRunTracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Begin records a new in-flight run.
func (t *InMemoryRunTracker) Begin(jobID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
	t.jobID = jobID
}

// Finish clears the in-flight run.
func (t *InMemoryRunTracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// JobID returns the most recently started run's ID.
func (t *InMemoryRunTracker) JobID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.jobID
}

// SetError records why the last run went wrong.
func (t *InMemoryRunTracker) SetError(processingError *ProcessingError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastError = processingError
}

// LastError returns the last recorded failure, if any.
func (t *InMemoryRunTracker) LastError() *ProcessingError {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastError
}

// ClearError forgets the last recorded failure.
func (t *InMemoryRunTracker) ClearError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastError = nil
}
