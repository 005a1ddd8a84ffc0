// Package memory provides an in-process session store.
package memory

import (
	"context"
	"sync"

	"github.com/zoobzio/boomerang"
)

// Store keeps session data in memory. Data does not survive a restart and
// is not shared between processes.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sessions: make(map[string]map[string][]byte),
	}
}

// Session returns the session for id.
func (s *Store) Session(id string) boomerang.Session {
	return &session{store: s, id: id}
}

// Len returns the number of sessions holding at least one key.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

type session struct {
	store *Store
	id    string
}

func (s *session) Get(_ context.Context, key string) ([]byte, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	data, ok := s.store.sessions[s.id][key]
	if !ok {
		return nil, boomerang.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *session) Set(_ context.Context, key string, data []byte) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	values, ok := s.store.sessions[s.id]
	if !ok {
		values = make(map[string][]byte)
		s.store.sessions[s.id] = values
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	values[key] = stored
	return nil
}

func (s *session) Delete(_ context.Context, key string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	values, ok := s.store.sessions[s.id]
	if !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		delete(s.store.sessions, s.id)
	}
	return nil
}
