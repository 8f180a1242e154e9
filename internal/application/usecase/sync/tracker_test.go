// Package sync contains bank feed synchronization use cases.
package sync

import (
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryRunTracker(t *testing.T) {
	t.Run("starts idle", func(t *testing.T) {
		tracker := NewInMemoryRunTracker()

		if tracker.IsRunning() {
			t.Error("expected a fresh tracker to be idle")
		}
		if tracker.JobID() != "" {
			t.Error("expected no job id on a fresh tracker")
		}
		if tracker.LastError() != "" {
			t.Error("expected no error on a fresh tracker")
		}
	})

	t.Run("Begin and Finish bracket a job", func(t *testing.T) {
		tracker := NewInMemoryRunTracker()

		tracker.Begin("job-1")
		if !tracker.IsRunning() {
			t.Error("expected the tracker to be running after Begin")
		}
		if tracker.JobID() != "job-1" {
			t.Errorf("expected job-1, got %s", tracker.JobID())
		}
		if tracker.StartedAt().IsZero() {
			t.Error("expected a start time")
		}

		tracker.Finish()
		if tracker.IsRunning() {
			t.Error("expected the tracker to be idle after Finish")
		}
		if tracker.JobID() != "job-1" {
			t.Error("expected the last job id to survive Finish")
		}
	})

	t.Run("errors survive until cleared", func(t *testing.T) {
		tracker := NewInMemoryRunTracker()

		tracker.SetError("1 of 2 link(s) failed to sync")
		if tracker.LastError() != "1 of 2 link(s) failed to sync" {
			t.Errorf("unexpected error message: %s", tracker.LastError())
		}

		tracker.ClearError()
		if tracker.LastError() != "" {
			t.Error("expected the error to be cleared")
		}
	})

	t.Run("is safe under concurrent access", func(t *testing.T) {
		tracker := NewInMemoryRunTracker()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				tracker.Begin(fmt.Sprintf("job-%d", n))
				tracker.IsRunning()
				tracker.SetError("boom")
				tracker.LastError()
				tracker.Finish()
			}(i)
		}
		wg.Wait()

		if tracker.IsRunning() {
			t.Error("expected the tracker to settle idle")
		}
	})
}
