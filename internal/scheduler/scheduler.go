package scheduler

import (
	"sync"
	"time"
)

// Scheduler owns every deferred callback for every session: phase deadlines,
// bot decision delays, chat cadence. "Clear all timers for session X" is one
// call, and a callback that lost the race with cancellation never runs.
type Scheduler struct {
	mu     sync.Mutex
	seq    int64
	timers map[string]map[int64]*time.Timer // session id -> handle -> timer
}

func New() *Scheduler {
	return &Scheduler{
		timers: make(map[string]map[int64]*time.Timer),
	}
}

// After schedules fn to run after d, tied to sessionID. The callback is
// dropped silently if CancelSession (or Stop) beat it to the punch.
func (s *Scheduler) After(sessionID string, d time.Duration, fn func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	handle := s.seq

	t := time.AfterFunc(d, func() {
		// fire-time validity check: a cancelled handle must be a no-op even
		// if the underlying timer already popped
		s.mu.Lock()
		set, ok := s.timers[sessionID]
		if ok {
			_, ok = set[handle]
			delete(set, handle)
		}
		s.mu.Unlock()
		if !ok {
			return
		}
		fn()
	})

	set, ok := s.timers[sessionID]
	if !ok {
		set = make(map[int64]*time.Timer)
		s.timers[sessionID] = set
	}
	set[handle] = t
	return handle
}

// Cancel stops a single handle. Returns false if it already fired or was
// cancelled before.
func (s *Scheduler) Cancel(sessionID string, handle int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.timers[sessionID]
	if !ok {
		return false
	}
	t, ok := set[handle]
	if !ok {
		return false
	}
	delete(set, handle)
	t.Stop()
	return true
}

// CancelSession stops everything scheduled for one session. Called on every
// phase transition (before the next phase schedules) and on termination.
func (s *Scheduler) CancelSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.timers[sessionID] {
		t.Stop()
	}
	delete(s.timers, sessionID)
}

// Pending reports how many callbacks are still scheduled for a session.
func (s *Scheduler) Pending(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[sessionID])
}

// Stop cancels everything for every session.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, set := range s.timers {
		for _, t := range set {
			t.Stop()
		}
		delete(s.timers, id)
	}
}
