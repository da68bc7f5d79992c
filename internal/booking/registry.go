package booking

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live sessions by opaque ID. The lock only guards the
// map; each Session itself is single-caller by contract, so operations on
// a looked-up session need no further synchronization here.
type Registry struct {
	mu       sync.RWMutex
	deps     Deps
	sessions map[string]*Session
}

// NewRegistry returns an empty registry that creates sessions over the
// given collaborators.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Session)}
}

// Open creates a fresh anonymous session and returns its ID.
func (r *Registry) Open() string {
	id := uuid.NewString()
	s := NewSession(r.deps)
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	return s, ok
}

// Close discards a session. Tokens referencing it stop resolving.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
