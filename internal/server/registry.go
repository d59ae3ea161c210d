package server

import (
	"sync"

	"github.com/kamstrup/intmap"
)

// Registry tracks the live sessions by id.
type Registry struct {
	mu       sync.RWMutex
	opts     Options
	sessions *intmap.Map[uint64, *Session]
	nextID   uint64
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		sessions: intmap.New[uint64, *Session](64),
	}
}

// Open creates and registers a session. The caller starts it with Run.
func (r *Registry) Open() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s := newSession(r.nextID, r.opts)
	r.sessions.Put(s.id, s)
	return s
}

// Remove closes and forgets the session with the given id.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	s, ok := r.sessions.Get(id)
	if ok {
		r.sessions.Del(id)
	}
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (r *Registry) Get(id uint64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions.Get(id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions.Len()
}

// CloseAll closes every session and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	var all []*Session
	r.sessions.ForEach(func(_ uint64, s *Session) bool {
		all = append(all, s)
		return true
	})
	r.sessions.Clear()
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
