// Package sync contains bank feed synchronization use cases.
package sync

import (
	"sync"
	"time"
)

// RunTracker tracks the in-flight sync job so status queries can answer
// without touching the database.
type RunTracker interface {
	// IsRunning reports whether a sync job is in flight.
	IsRunning() bool

	// Begin records a new in-flight job.
	Begin(jobID string)

	// Finish clears the in-flight job.
	Finish()

	// JobID returns the most recently started job's ID.
	JobID() string

	// StartedAt returns when the most recent job began.
	StartedAt() time.Time

	// SetError records why the last job went wrong.
	SetError(message string)

	// LastError returns the last recorded failure message, if any.
	LastError() string

	// ClearError forgets the last recorded failure.
	ClearError()
}

// InMemoryRunTracker is a thread-safe in-memory implementation of RunTracker.
type InMemoryRunTracker struct {
	mu        sync.RWMutex
	running   bool
	jobID     string
	startedAt time.Time
	lastError string
}

// NewInMemoryRunTracker creates a new InMemoryRunTracker instance.
func NewInMemoryRunTracker() *InMemoryRunTracker {
	return &InMemoryRunTracker{}
}

// IsRunning reports whether a sync job is in flight.
func (t *InMemoryRunTracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Begin records a new in-flight job.
func (t *InMemoryRunTracker) Begin(jobID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
	t.jobID = jobID
	t.startedAt = time.Now().UTC()
}

// Finish clears the in-flight job.
func (t *InMemoryRunTracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// JobID returns the most recently started job's ID.
func (t *InMemoryRunTracker) JobID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.jobID
}

// StartedAt returns when the most recent job began.
func (t *InMemoryRunTracker) StartedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.startedAt
}

// SetError records why the last job went wrong.
func (t *InMemoryRunTracker) SetError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastError = message
}

// LastError returns the last recorded failure message, if any.
func (t *InMemoryRunTracker) LastError() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastError
}

// ClearError forgets the last recorded failure.
func (t *InMemoryRunTracker) ClearError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastError = ""
}
