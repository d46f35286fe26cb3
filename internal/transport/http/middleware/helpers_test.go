package middleware

import (
	"errors"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusTeapot)
}

// nextRecorder captures what the downstream handler observed.
type nextRecorder struct {
	calls     int
	principal string
	sid       string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	if u, ok := PrincipalFromContext(r.Context()); ok {
		n.principal = u.ID
	}
	n.sid, _ = SessionIDFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

// errCode returns the domain code carried by err, or "" for other errors.
func errCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
