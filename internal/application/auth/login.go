package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// Login verifies credentials and opens a new session, replacing previousSID.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password, previousSID string) (LoginResult, error) {
	const action = "auth.login"

	if email == "" || password == "" {
		err := domain.ErrInvalidCredentials()
		s.audit(ctx, action, auditFields("error", err, "email", email))
		return LoginResult{}, err
	}

	u, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		s.audit(ctx, action, auditFields("error", err, "email", email))
		return LoginResult{}, err
	}

	sid, err := s.StartSession(ctx, u, previousSID)
	if err != nil {
		s.audit(ctx, action, auditFields("error", err, "email", email, "user_id", u.ID))
		return LoginResult{}, err
	}

	s.audit(ctx, action, auditFields("success", nil, "email", email, "user_id", u.ID))
	return LoginResult{User: u, SessionID: sid}, nil
}
