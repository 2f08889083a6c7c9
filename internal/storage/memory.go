// Package storage provides persistence implementations: an in-memory store
// for transient cook sessions and a SQLite store for everything that
// outlives a process.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory cook session store. Safe for concurrent
// access. Sessions are copied on the way in and out so callers never share
// progress slices.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.CookSession
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.CookSession),
		log:      log,
	}
}

// Save persists a session. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, session *domain.CookSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving session %s (recipe=%s, mode=%s)", session.ID, session.RecipeID, session.Progress.Mode)
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

// Load retrieves a session by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.CookSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Debug("session not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return cloneSession(sess), nil
}

// Delete removes a session by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Debug("deleted session %s", id)
	return nil
}

// ListActive returns all sessions that are collecting or executing, oldest
// first.
func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.CookSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.CookSession
	for _, sess := range s.sessions {
		if sess.Active() {
			out = append(out, cloneSession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	s.log.Debug("listing active sessions, count=%d", len(out))
	return out, nil
}

func cloneSession(s *domain.CookSession) *domain.CookSession {
	c := *s
	c.Progress = s.Progress.Clone()
	return &c
}
