// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInMemoryRunTracker_RunState(t *testing.T) {
	tracker := NewInMemoryRunTracker()
	jobID := "test-job-123"

	t.Run("IsRunning returns false before any run", func(t *testing.T) {
		if tracker.IsRunning() {
			t.Error("expected IsRunning to return false")
		}
	})

	t.Run("JobID returns empty string before any run", func(t *testing.T) {
		if tracker.JobID() != "" {
			t.Error("expected JobID to return empty string")
		}
	})

	t.Run("Begin marks the run in flight", func(t *testing.T) {
		tracker.Begin(jobID)

		if !tracker.IsRunning() {
			t.Error("expected IsRunning to return true after Begin")
		}

		if tracker.JobID() != jobID {
			t.Errorf("expected jobID %s, got %s", jobID, tracker.JobID())
		}
	})

	t.Run("Finish clears the in-flight run", func(t *testing.T) {
		tracker.Finish()

		if tracker.IsRunning() {
			t.Error("expected IsRunning to return false after Finish")
		}
	})

	t.Run("JobID survives Finish", func(t *testing.T) {
		if tracker.JobID() != jobID {
			t.Errorf("expected jobID %s after Finish, got %s", jobID, tracker.JobID())
		}
	})
}

func TestInMemoryRunTracker_ErrorTracking(t *testing.T) {
	tracker := NewInMemoryRunTracker()

	t.Run("LastError returns nil when no error exists", func(t *testing.T) {
		if tracker.LastError() != nil {
			t.Error("expected LastError to return nil for non-existent error")
		}
	})

	t.Run("SetError stores the error", func(t *testing.T) {
		testError := &ProcessingError{
			Code:      ErrCodeAIRateLimited,
			Message:   errorMessages[ErrCodeAIRateLimited],
			Retryable: true,
			Timestamp: time.Now(),
		}

		tracker.SetError(testError)

		retrieved := tracker.LastError()
		if retrieved == nil {
			t.Fatal("expected LastError to return non-nil error")
		}

		if retrieved.Code != testError.Code {
			t.Errorf("expected code %s, got %s", testError.Code, retrieved.Code)
		}

		if retrieved.Message != testError.Message {
			t.Errorf("expected message %s, got %s", testError.Message, retrieved.Message)
		}

		if retrieved.Retryable != testError.Retryable {
			t.Errorf("expected retryable %v, got %v", testError.Retryable, retrieved.Retryable)
		}
	})

	t.Run("SetError overwrites existing error", func(t *testing.T) {
		newError := &ProcessingError{
			Code:      ErrCodeAIServiceUnavailable,
			Message:   errorMessages[ErrCodeAIServiceUnavailable],
			Retryable: true,
			Timestamp: time.Now(),
		}

		tracker.SetError(newError)

		retrieved := tracker.LastError()
		if retrieved == nil {
			t.Fatal("expected LastError to return non-nil error")
		}

		if retrieved.Code != ErrCodeAIServiceUnavailable {
			t.Errorf("expected code %s, got %s", ErrCodeAIServiceUnavailable, retrieved.Code)
		}
	})

	t.Run("ClearError removes the error", func(t *testing.T) {
		tracker.ClearError()

		if tracker.LastError() != nil {
			t.Error("expected LastError to return nil after ClearError")
		}
	})

	t.Run("ClearError without an error does not panic", func(t *testing.T) {
		tracker.ClearError()
	})
}

func TestInMemoryRunTracker_ThreadSafety(t *testing.T) {
	tracker := NewInMemoryRunTracker()

	const goroutines = 100
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	// Run concurrent operations to verify no race conditions.
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()

			for j := 0; j < iterations; j++ {
				// Mix of run and error operations.
				switch j % 7 {
				case 0:
					tracker.Begin(uuid.New().String())
				case 1:
					tracker.IsRunning()
				case 2:
					tracker.JobID()
				case 3:
					tracker.Finish()
				case 4:
					tracker.SetError(&ProcessingError{
						Code:      ErrCodeAIRateLimited,
						Message:   errorMessages[ErrCodeAIRateLimited],
						Retryable: true,
						Timestamp: time.Now(),
					})
				case 5:
					tracker.LastError()
				case 6:
					tracker.ClearError()
				}
			}
		}()
	}

	wg.Wait()
	// If we reach here without data race panic, the test passes.
}
