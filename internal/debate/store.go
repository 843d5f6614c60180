package debate

import (
	"sync"

	"github.com/pocketmind/relay/internal/common"
)

const defaultCapacity = 1024

// Store is the keyed registry of debate sessions. It is process-local and
// capacity-capped: inserting at capacity evicts the least-recently-touched
// inactive session, falling back to the least-recently-touched overall.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	capacity int
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{
		sessions: make(map[string]*Session),
		capacity: capacity,
	}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.capacity {
		st.evictLocked()
	}
	st.sessions[s.ID] = s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, common.E(common.ErrNotFound, "debate not found: %s", id)
	}
	s.touch()
	return s, nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) evictLocked() {
	var victim *Session
	victimActive := true
	for _, s := range st.sessions {
		active := s.isActive()
		switch {
		case victim == nil,
			victimActive && !active,
			victimActive == active && s.touchedAt().Before(victim.touchedAt()):
			victim = s
			victimActive = active
		}
	}
	if victim != nil {
		delete(st.sessions, victim.ID)
	}
}
