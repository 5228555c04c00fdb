// Package syncer provides the per-key debounce used to coalesce bursts of
// writes: many position updates during one drag gesture collapse into one
// remote call, and rapid local mutations collapse into one cache snapshot.
package syncer

import (
	"sort"
	"sync"
	"time"
)

// Scheduler holds at most one pending task per key. Scheduling a key that
// already has a pending task cancels and replaces it, so only the last task
// inside a quiet window ever runs.
type Scheduler struct {
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[string]*task
	stopped bool
	firing  sync.WaitGroup
}

type task struct {
	timer *time.Timer
	gen   uint64
	fn    func()
}

func New(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Scheduler{
		delay:   delay,
		pending: map[string]*task{},
	}
}

// Debounce schedules fn to run after the quiet period. A pending task for the
// same key is cancelled outright: its fn never runs.
func (s *Scheduler) Debounce(key string, fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}
	s.gen++
	t := &task{gen: s.gen, fn: fn}
	t.timer = time.AfterFunc(s.delay, func() { s.fire(key, t.gen) })
	s.pending[key] = t
}

func (s *Scheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	t, ok := s.pending[key]
	if !ok || t.gen != gen {
		// Replaced or cancelled after the timer fired; drop it.
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	// Stay accounted until fn returns: a Flush racing this timer must not
	// come back before the task has actually run.
	s.firing.Add(1)
	s.mu.Unlock()
	defer s.firing.Done()
	t.fn()
}

// Cancel drops the key's pending task, if any, without running it.
func (s *Scheduler) Cancel(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[key]; ok {
		t.timer.Stop()
		delete(s.pending, key)
	}
}

// Flush runs every pending task now, synchronously, in key order, then waits
// for any task whose timer already fired and is still running.
func (s *Scheduler) Flush() {
	if s == nil {
		return
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		t := s.pending[k]
		t.timer.Stop()
		delete(s.pending, k)
		fns = append(fns, t.fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	s.firing.Wait()
}

// Stop cancels all pending tasks and rejects further scheduling.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for k, t := range s.pending {
		t.timer.Stop()
		delete(s.pending, k)
	}
}

func (s *Scheduler) IsPending(key string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// PendingKeys returns the keys with a scheduled task, sorted.
func (s *Scheduler) PendingKeys() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
