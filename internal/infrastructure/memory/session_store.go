package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// sessionEntry holds the user ID and expiration time for a session
type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

// SessionStore keeps sessions in process memory. Used in tests and as the
// fallback when Redis is unavailable in dev.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	sid, err := newOpaqueToken(32)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sid] = sessionEntry{
		userID:    userID,
		expiresAt: s.now().Add(ttl),
	}
	return sid, nil
}

func (s *SessionStore) Lookup(ctx context.Context, sid string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sid]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if !s.now().Before(entry.expiresAt) {
		// expired: drop it lazily
		_ = s.Destroy(ctx, sid)
		return "", false, nil
	}
	return entry.userID, true, nil
}

func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid) // idempotent
	return nil
}
