package middleware

import (
	"context"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// WriteErrFunc renders an error response; handlers and middleware share it so
// every failure goes through the same JSON envelope.
type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

type ctxKey string

const (
	ctxPrincipal ctxKey = "principal"
	ctxSessionID ctxKey = "session_id"
)

func WithPrincipal(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxPrincipal, u)
}

// PrincipalFromContext returns the authenticated user resolved for this request.
func PrincipalFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxPrincipal).(domain.User)
	return u, ok && u.ID != ""
}

func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxSessionID, sid)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxSessionID).(string)
	return v, ok && v != ""
}
