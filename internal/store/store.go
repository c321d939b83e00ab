package store

import (
	"errors"
	"sync"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"
)

var ErrNotFound = errors.New("game not found")

// GameStore is the only shared mutable registry. Writes go through Update so
// readers never observe a half-mutated session; a per-session mutex keeps one
// writer at a time per game while distinct games proceed in parallel.
type GameStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *game.Session
}

func NewGameStore() *GameStore {
	return &GameStore{
		sessions: make(map[string]*entry),
	}
}

// Put registers a session. Existing ids are overwritten; callers create ids
// with uuid so collisions don't happen in practice.
func (s *GameStore) Put(sess *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &entry{session: sess}
}

// Get returns the live session pointer. Mutating it outside Update is a bug.
func (s *GameStore) Get(id string) (*game.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Update runs fn with the session's write lock held. This is the single
// mutation entry point: human actions, bot actions and resolver application
// all serialize here.
func (s *GameStore) Update(id string, fn func(*game.Session) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Delete drops a session. Callers cancel the session's timers first so no
// deferred work keeps referencing it.
func (s *GameStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Each calls fn for every registered session id (no locks held during fn).
func (s *GameStore) Each(fn func(id string)) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		fn(id)
	}
}

func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
