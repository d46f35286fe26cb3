package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for accounts.
"Not found" is reported through the bool, never as an error.
Create wraps domain.ErrDuplicateKey when the email is taken.
*/
type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (domain.User, bool, error)
	FindByID(ctx context.Context, id string) (domain.User, bool, error)
	Create(ctx context.Context, email, passwordHash string, role domain.Role) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
}

/*
AuthorizedEmailRepo
-------------------
The registration whitelist. Lookups are exact-match on the email string.
*/
type AuthorizedEmailRepo interface {
	Find(ctx context.Context, email string) (domain.AuthorizedEmail, bool, error)
	List(ctx context.Context) ([]domain.AuthorizedEmail, error)
	Create(ctx context.Context, email string, role domain.Role) (domain.AuthorizedEmail, error)
	// UpdateRole returns false when no entry matched.
	UpdateRole(ctx context.Context, email string, role domain.Role) (bool, error)
	// Delete is a no-op for unknown emails.
	Delete(ctx context.Context, email string) error
}

/*
PasswordHasher
--------------
Verify returns an error wrapping domain.ErrCorruptCredential when the stored
hash cannot be decoded.
*/
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, hash, password string) (bool, error)
}

/*
SessionStore
------------
Server-side sessions keyed by an opaque id. Only the user id is stored.
Backed by Redis or memory.
*/
type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (sid string, err error)
	Lookup(ctx context.Context, sid string) (userID string, found bool, err error)
	Destroy(ctx context.Context, sid string) error
}

/*
EventPublisher
--------------
Account lifecycle events. Publishing is best effort: the service logs a
failure and carries on.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishWhitelistChanged(ctx context.Context, evt WhitelistChangedEvent) error
}

type UserRegisteredEvent struct {
	UserID string
	Email  string
	Role   string
}

type WhitelistAction string

const (
	WhitelistCreated WhitelistAction = "created"
	WhitelistUpdated WhitelistAction = "updated"
	WhitelistDeleted WhitelistAction = "deleted"
)

type WhitelistChangedEvent struct {
	Email   string
	Role    string
	Action  WhitelistAction
	ActorID string
}
