package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
)

type SeederHasher interface {
	Hash(ctx context.Context, password string) (string, error)
}

type SeederWhitelist interface {
	Create(ctx context.Context, email string, role domain.Role) (domain.AuthorizedEmail, error)
}

type SeederUsers interface {
	Create(ctx context.Context, email, passwordHash string, role domain.Role) (domain.User, error)
}

// SeedAdmin whitelists email as ADMIN and creates the matching account.
// Safe to run on every start: existing rows are left untouched. Works with
// any store implementing the seeder interfaces, not only Postgres.
func SeedAdmin(ctx context.Context, whitelist SeederWhitelist, users SeederUsers, hasher SeederHasher, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	if _, err := whitelist.Create(ctx, email, domain.RoleAdmin); err != nil && !errors.Is(err, domain.ErrDuplicateKey) {
		return fmt.Errorf("seed whitelist: %w", err)
	}

	hash, err := hasher.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("seed hash: %w", err)
	}

	if _, err := users.Create(ctx, email, hash, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			logger.Logger.Info().Msg("[seed] admin already present")
			return nil
		}
		return fmt.Errorf("seed user: %w", err)
	}

	logger.Logger.Info().Msg("[seed] admin account created")
	return nil
}
