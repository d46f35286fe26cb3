package auth

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/validation"
)

// AuditFunc receives one entry per business action.
type AuditFunc func(ctx context.Context, action string, fields map[string]string)

type Service struct {
	users    UserRepo
	emails   AuthorizedEmailRepo
	hasher   PasswordHasher
	sessions SessionStore
	pub      EventPublisher
	validate *validation.Validator

	sessionTTL time.Duration
	audit      AuditFunc

	// verified against when the account is unknown, so a miss costs one Argon2 run too.
	// Empty until a Hash succeeds.
	dummyMu   sync.Mutex
	dummyHash string
}

type Config struct {
	SessionTTL time.Duration
}

func NewService(
	users UserRepo,
	emails AuthorizedEmailRepo,
	hasher PasswordHasher,
	sessions SessionStore,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    users,
		emails:   emails,
		hasher:   hasher,
		sessions: sessions,
		pub:      pub,
		validate: validation.New(),

		sessionTTL: ttl,
		audit:      func(context.Context, string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn AuditFunc) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// SessionTTL is the lifetime handed to the session cookie.
func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

// LoginResult is what handlers need after a successful login.
type LoginResult struct {
	User      domain.User
	SessionID string
}
