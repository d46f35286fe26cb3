package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
)

// Logout ends the session behind sid. It never fails from the caller's point
// of view; a store error is logged and the client cookie is cleared anyway.
func (s *Service) Logout(ctx context.Context, userID, sid string) {
	if err := s.EndSession(ctx, sid); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("logout: session destroy failed")
		s.audit(ctx, "auth.logout", auditFields("error", err, "user_id", userID))
		return
	}
	if sid != "" {
		s.audit(ctx, "auth.logout", auditFields("success", nil, "user_id", userID))
	}
}
