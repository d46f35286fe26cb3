package middleware

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// RequireAuthenticated rejects anonymous requests with 401.
// Assumes Session() ran earlier in the chain.
func RequireAuthenticated(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				writeErr(w, r, domain.ErrUnauthenticated())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrUnauthenticated())
				return
			}
			if !u.IsAdmin() {
				writeErr(w, r, domain.ErrInsufficientRole(domain.RoleAdmin.String()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
