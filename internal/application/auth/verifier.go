package auth

import (
	"context"
	"errors"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
)

const dummyPassword = "access-service-dummy-password"

// VerifyCredentials returns the account for email when password matches.
// Unknown email, wrong password and an undecodable stored hash all produce
// the same invalid_credentials error.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	u, found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, domain.ErrStoreFailed(err)
	}

	if !found {
		// burn the same Argon2 cost as a real check
		_, _ = s.hasher.Verify(ctx, s.dummy(ctx), password)
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	ok, err := s.hasher.Verify(ctx, u.PasswordHash, password)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptCredential) {
			logger.WithCtx(ctx).Error().
				Str("user_id", u.ID).
				Err(err).
				Msg("stored password hash is corrupt")
		} else {
			logger.WithCtx(ctx).Warn().Err(err).Msg("password verification failed")
		}
		return domain.User{}, domain.ErrInvalidCredentials()
	}
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials()
	}
	return u, nil
}

// dummy returns the hash verified for unknown accounts. A failed Hash is
// retried on the next call instead of being cached.
func (s *Service) dummy(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash != "" {
		return s.dummyHash
	}
	h, err := s.hasher.Hash(ctx, dummyPassword)
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("dummy hash unavailable")
		return ""
	}
	s.dummyHash = h
	return h
}
