package session

import (
	"errors"
	"sort"
	"sync"
)

// ErrFull is returned by [Registry.Add] when the session cap is reached.
var ErrFull = errors.New("maximum sessions reached")

// Registry tracks live sessions.
//
// Registry only records which sessions exist; it never touches their view
// state. It is safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
}

// NewRegistry creates a registry admitting at most max sessions. A max of
// zero or less means no limit.
func NewRegistry(max int) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// Add registers s. Returns [ErrFull] if the registry is at capacity.
func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && len(r.sessions) >= r.max {
		return ErrFull
	}
	r.sessions[s.ID()] = s
	return nil
}

// Remove forgets the session with the given id. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the ids of live sessions in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
