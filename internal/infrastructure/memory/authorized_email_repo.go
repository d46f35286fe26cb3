package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

type AuthorizedEmailRepo struct {
	mu      sync.RWMutex
	byEmail map[string]domain.AuthorizedEmail
}

func NewAuthorizedEmailRepo() *AuthorizedEmailRepo {
	return &AuthorizedEmailRepo{byEmail: make(map[string]domain.AuthorizedEmail)}
}

func (r *AuthorizedEmailRepo) Find(ctx context.Context, email string) (domain.AuthorizedEmail, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byEmail[email]
	return e, ok, nil
}

// List returns entries oldest first, matching the Postgres ordering.
func (r *AuthorizedEmailRepo) List(ctx context.Context) ([]domain.AuthorizedEmail, error) {
	r.mu.RLock()
	out := make([]domain.AuthorizedEmail, 0, len(r.byEmail))
	for _, e := range r.byEmail {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AuthorizedEmailRepo) Create(ctx context.Context, email string, role domain.Role) (domain.AuthorizedEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return domain.AuthorizedEmail{}, fmt.Errorf("authorized_emails.email: %w", domain.ErrDuplicateKey)
	}
	e := domain.AuthorizedEmail{Email: email, Role: role, CreatedAt: time.Now().UTC()}
	r.byEmail[email] = e
	return e, nil
}

func (r *AuthorizedEmailRepo) UpdateRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byEmail[email]
	if !ok {
		return false, nil
	}
	e.Role = role
	r.byEmail[email] = e
	return true, nil
}

func (r *AuthorizedEmailRepo) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byEmail, email) // idempotent
	return nil
}
