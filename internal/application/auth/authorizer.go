package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// AuthorizeRegistration returns the role the whitelist grants email.
// The lookup is exact: no trimming, no case folding.
func (s *Service) AuthorizeRegistration(ctx context.Context, email string) (domain.Role, error) {
	entry, found, err := s.emails.Find(ctx, email)
	if err != nil {
		return "", domain.ErrStoreFailed(err)
	}
	if !found {
		return "", domain.ErrEmailNotAuthorized()
	}
	return entry.Role, nil
}
