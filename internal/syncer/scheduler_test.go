package syncer

import (
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCoalescesToLastTask(t *testing.T) {
	s := New(time.Hour)
	defer s.Stop()

	var got atomic.Int32
	s.Debounce("item-1", func() { got.Store(1) })
	s.Debounce("item-1", func() { got.Store(2) })
	s.Debounce("item-1", func() { got.Store(3) })

	if s.Pending() != 1 {
		t.Fatalf("expected one pending task, got %d", s.Pending())
	}
	s.Flush()
	if got.Load() != 3 {
		t.Fatalf("expected only the last task to run, got %d", got.Load())
	}
	if s.Pending() != 0 {
		t.Fatalf("flush must drain pending tasks, got %d", s.Pending())
	}
}

func TestDebounceKeysAreIndependent(t *testing.T) {
	s := New(time.Hour)
	defer s.Stop()

	var a, b atomic.Int32
	s.Debounce("item-a", func() { a.Add(1) })
	s.Debounce("item-b", func() { b.Add(1) })

	if keys := s.PendingKeys(); !reflect.DeepEqual(keys, []string{"item-a", "item-b"}) {
		t.Fatalf("unexpected pending keys: %v", keys)
	}
	s.Flush()
	if a.Load() != 1 || b.Load() != 1 {
		t.Fatalf("expected both keys to run once, got a=%d b=%d", a.Load(), b.Load())
	}
}

func TestDebounceFiresAfterQuietPeriod(t *testing.T) {
	s := New(5 * time.Millisecond)
	defer s.Stop()

	done := make(chan struct{})
	s.Debounce("item-1", func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timer never fired")
	}
	if s.IsPending("item-1") {
		t.Fatalf("fired task must leave the pending set")
	}
}

func TestCancelDropsTaskWithoutRunning(t *testing.T) {
	s := New(time.Hour)
	defer s.Stop()

	var ran atomic.Bool
	s.Debounce("item-1", func() { ran.Store(true) })
	s.Cancel("item-1")

	if s.IsPending("item-1") {
		t.Fatalf("cancel must remove the pending task")
	}
	s.Flush()
	if ran.Load() {
		t.Fatalf("cancelled task must never run")
	}
}

func TestStopRejectsFurtherScheduling(t *testing.T) {
	s := New(time.Hour)

	var ran atomic.Bool
	s.Debounce("item-1", func() { ran.Store(true) })
	s.Stop()

	s.Debounce("item-2", func() { ran.Store(true) })
	if s.Pending() != 0 {
		t.Fatalf("stopped scheduler must hold no tasks, got %d", s.Pending())
	}
	s.Flush()
	if ran.Load() {
		t.Fatalf("no task should run after stop")
	}
}

func TestFlushWaitsForTaskFiringOnItsTimer(t *testing.T) {
	s := New(time.Millisecond)
	defer s.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	var done atomic.Bool
	s.Debounce("item-1", func() {
		close(started)
		<-release
		done.Store(true)
	})

	// The timer has fired and removed the task from the pending set, but the
	// task is still running. Flush must not return before it finishes.
	<-started
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	s.Flush()
	if !done.Load() {
		t.Fatalf("flush returned before the fired task finished")
	}
}

func TestNilSchedulerIsInert(t *testing.T) {
	var s *Scheduler
	s.Debounce("item-1", func() { t.Fatalf("nil scheduler must not run tasks") })
	s.Cancel("item-1")
	s.Flush()
	s.Stop()
	if s.IsPending("item-1") || s.Pending() != 0 || s.PendingKeys() != nil {
		t.Fatalf("nil scheduler must report nothing pending")
	}
}
