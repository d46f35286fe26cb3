package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/validation"
)

// ChangePassword replaces the password of an authenticated user.
//
// A wrong old password is not reported: the call succeeds without changing
// anything and only the audit trail records the mismatch.
func (s *Service) ChangePassword(ctx context.Context, user domain.User, oldPassword, newPassword string) error {
	const action = "auth.password_change"

	fail := func(err error) error {
		s.audit(ctx, action, auditFields("error", err, "user_id", user.ID))
		return err
	}

	if err := s.validate.Required(
		validation.Field{Name: "old_password", Value: oldPassword},
		validation.Field{Name: "new_password", Value: newPassword},
	); err != nil {
		return fail(err)
	}
	if err := s.validate.MinLength(validation.Field{Name: "new_password", Value: newPassword}); err != nil {
		return fail(err)
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, oldPassword)
	if err != nil || !ok {
		reason := "old_password_mismatch"
		if err != nil {
			reason = "stored_hash_unreadable"
		}
		s.audit(ctx, action, auditFields("noop", nil, "user_id", user.ID, "reason", reason))
		return nil
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fail(domain.ErrHashFailed(err))
	}

	if err := s.users.UpdatePasswordHash(ctx, user.Email, hash); err != nil {
		return fail(domain.ErrStoreFailed(err))
	}

	s.audit(ctx, action, auditFields("success", nil, "user_id", user.ID))
	return nil
}
