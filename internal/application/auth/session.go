package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
)

// StartSession binds a fresh session id to user. Any session the client
// already presented is destroyed first so an id planted before login is
// never promoted to an authenticated one.
func (s *Service) StartSession(ctx context.Context, user domain.User, previousSID string) (string, error) {
	if previousSID != "" {
		if err := s.sessions.Destroy(ctx, previousSID); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("failed to destroy previous session")
		}
	}

	sid, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return "", domain.ErrSessionFailed(err)
	}
	return sid, nil
}

// ResolveSession maps a session id to its user. The user is re-read on every
// call so role changes apply to live sessions. A missing id, an expired
// session, and a deleted user all resolve to anonymous.
func (s *Service) ResolveSession(ctx context.Context, sid string) (domain.User, bool, error) {
	if sid == "" {
		return domain.User{}, false, nil
	}

	userID, found, err := s.sessions.Lookup(ctx, sid)
	if err != nil {
		return domain.User{}, false, domain.ErrSessionFailed(err)
	}
	if !found {
		return domain.User{}, false, nil
	}

	u, found, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, false, domain.ErrStoreFailed(err)
	}
	if !found {
		return domain.User{}, false, nil
	}
	return u, true, nil
}

// EndSession is idempotent: an empty or unknown id is not an error.
func (s *Service) EndSession(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sid); err != nil {
		return domain.ErrSessionFailed(err)
	}
	return nil
}
