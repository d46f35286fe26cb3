package middleware

import (
	"context"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/security"
)

type SessionResolver interface {
	ResolveSession(ctx context.Context, sid string) (domain.User, bool, error)
}

// Session resolves the session cookie into a principal. A missing, expired or
// dangling session leaves the request anonymous; only store failures abort it.
func Session(resolver SessionResolver, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := security.ReadSessionCookie(r)
			if sid == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSessionID(r.Context(), sid)

			u, ok, err := resolver.ResolveSession(ctx, sid)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if ok {
				ctx = WithPrincipal(ctx, u)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
