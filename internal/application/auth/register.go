package auth

import (
	"context"
	"errors"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/validation"
)

// Register creates an account for a whitelisted email. The account takes the
// role recorded on the whitelist entry.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	const action = "auth.register"

	fail := func(err error) (domain.User, error) {
		s.audit(ctx, action, auditFields("error", err, "email", email))
		return domain.User{}, err
	}

	if err := s.validateCredentials(email, password); err != nil {
		return fail(err)
	}

	role, err := s.AuthorizeRegistration(ctx, email)
	if err != nil {
		return fail(err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return fail(domain.ErrHashFailed(err))
	}

	created, err := s.users.Create(ctx, email, hash, role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return fail(domain.ErrEmailAlreadyExists())
		}
		return fail(domain.ErrStoreFailed(err))
	}

	s.audit(ctx, action, auditFields("success", nil,
		"email", created.Email,
		"user_id", created.ID,
		"role", created.Role.String(),
	))

	if err := s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID: created.ID,
		Email:  created.Email,
		Role:   created.Role.String(),
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", created.ID).Msg("publish user registered failed")
	}

	return created, nil
}

// validateCredentials runs presence, then length, then email syntax.
func (s *Service) validateCredentials(email, password string) error {
	fields := []validation.Field{{Name: "email", Value: email}, {Name: "password", Value: password}}
	if err := s.validate.Required(fields...); err != nil {
		return err
	}
	if err := s.validate.MinLength(fields...); err != nil {
		return err
	}
	return s.validate.Email(email)
}
