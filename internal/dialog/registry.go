// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dialog

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// ErrSessionNotFound is returned when a session id is not known to the
// registry.
var ErrSessionNotFound = errors.New("session not found")

// Registry holds all live sessions keyed by id. The registry lock covers
// only the map; per-session work happens under each session's own mutex.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      types.DialogConfig
}

// NewRegistry returns an empty registry that creates sessions with cfg.
func NewRegistry(cfg types.DialogConfig) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// Create adds a new session with a fresh id and returns it.
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := NewSession(uuid.NewString(), r.cfg)
	r.sessions[s.ID()] = s
	return s
}

// Get returns the session with the given id, or ErrSessionNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate returns the session with the given id, creating a new one
// when id is empty or unknown. An unknown id maps to a fresh session
// rather than an error so a client holding a stale id can keep talking.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != "" {
		if s, ok := r.sessions[id]; ok {
			return s
		}
	}
	s := NewSession(uuid.NewString(), r.cfg)
	r.sessions[s.ID()] = s
	return s
}

// Reset clears the session with the given id back to its initial state.
func (r *Registry) Reset(id string) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	s.Reset()
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
