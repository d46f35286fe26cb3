package auth

import (
	"context"
	"errors"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/validation"
)

// Whitelist administration. Callers are expected to be admins already; the
// HTTP layer enforces that with RequireAdmin. Existing accounts are never
// touched by these operations.

func (s *Service) ListAuthorizedEmails(ctx context.Context) ([]domain.AuthorizedEmail, error) {
	list, err := s.emails.List(ctx)
	if err != nil {
		return nil, domain.ErrStoreFailed(err)
	}
	return list, nil
}

func (s *Service) AddAuthorizedEmail(ctx context.Context, actor domain.User, email, role string) (domain.AuthorizedEmail, error) {
	const action = "admin.whitelist_add"

	fail := func(err error) (domain.AuthorizedEmail, error) {
		s.audit(ctx, action, auditFields("error", err, "actor_id", actor.ID, "email", email))
		return domain.AuthorizedEmail{}, err
	}

	if err := s.validate.Required(
		validation.Field{Name: "email", Value: email},
		validation.Field{Name: "role", Value: role},
	); err != nil {
		return fail(err)
	}
	if err := s.validate.Email(email); err != nil {
		return fail(err)
	}
	if err := s.validate.GrantableRole(role); err != nil {
		return fail(err)
	}

	created, err := s.emails.Create(ctx, email, domain.Role(role))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return fail(domain.ErrAuthorizedEmailExists())
		}
		return fail(domain.ErrStoreFailed(err))
	}

	s.audit(ctx, action, auditFields("success", nil, "actor_id", actor.ID, "email", email, "role", role))
	s.publishWhitelistChange(ctx, WhitelistChangedEvent{
		Email: created.Email, Role: created.Role.String(), Action: WhitelistCreated, ActorID: actor.ID,
	})
	return created, nil
}

func (s *Service) UpdateAuthorizedRole(ctx context.Context, actor domain.User, email, role string) error {
	const action = "admin.whitelist_update"

	fail := func(err error) error {
		s.audit(ctx, action, auditFields("error", err, "actor_id", actor.ID, "email", email))
		return err
	}

	if err := s.validate.GrantableRole(role); err != nil {
		return fail(err)
	}

	matched, err := s.emails.UpdateRole(ctx, email, domain.Role(role))
	if err != nil {
		return fail(domain.ErrStoreFailed(err))
	}
	if !matched {
		return fail(domain.ErrAuthorizedEmailNotFound())
	}

	s.audit(ctx, action, auditFields("success", nil, "actor_id", actor.ID, "email", email, "role", role))
	s.publishWhitelistChange(ctx, WhitelistChangedEvent{
		Email: email, Role: role, Action: WhitelistUpdated, ActorID: actor.ID,
	})
	return nil
}

// RemoveAuthorizedEmail succeeds for unknown emails too.
func (s *Service) RemoveAuthorizedEmail(ctx context.Context, actor domain.User, email string) error {
	const action = "admin.whitelist_remove"

	if err := s.emails.Delete(ctx, email); err != nil {
		err = domain.ErrStoreFailed(err)
		s.audit(ctx, action, auditFields("error", err, "actor_id", actor.ID, "email", email))
		return err
	}

	s.audit(ctx, action, auditFields("success", nil, "actor_id", actor.ID, "email", email))
	s.publishWhitelistChange(ctx, WhitelistChangedEvent{
		Email: email, Action: WhitelistDeleted, ActorID: actor.ID,
	})
	return nil
}

func (s *Service) publishWhitelistChange(ctx context.Context, evt WhitelistChangedEvent) {
	if err := s.pub.PublishWhitelistChanged(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("action", string(evt.Action)).
			Msg("publish whitelist changed failed")
	}
}
