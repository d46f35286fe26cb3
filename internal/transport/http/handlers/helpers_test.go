package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/response"
)

type testDeps struct {
	svc      *auth.Service
	users    *memory.UserRepo
	emails   *memory.AuthorizedEmailRepo
	sessions *memory.SessionStore
}

// cheap Argon2 parameters keep handler tests fast
func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	d := &testDeps{
		users:    memory.NewUserRepo(),
		emails:   memory.NewAuthorizedEmailRepo(),
		sessions: memory.NewSessionStore(),
	}
	hasher := security.NewArgon2Hasher(security.Argon2Params{
		MemoryKiB: 64, Time: 1, Threads: 1, KeyLen: 16, SaltLen: 16,
	}, 4)

	d.svc = auth.NewService(d.users, d.emails, hasher, d.sessions, memory.NewNoopPublisher(), auth.Config{})
	return d
}

// registerUser whitelists email with role and registers it through the service.
func (d *testDeps) registerUser(t *testing.T, email, password string, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	_, err := d.emails.Create(ctx, email, role)
	require.NoError(t, err)

	u, err := d.svc.Register(ctx, email, password)
	require.NoError(t, err)
	return u
}

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, r io.Reader, out any) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	require.NoError(t, json.Unmarshal(env.Data, out), string(raw))
}

func mustReadError(t *testing.T, r io.Reader) response.ErrorPayload {
	t.Helper()

	var body response.ErrorBody
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Error
}

func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func withPrincipal(req *http.Request, u domain.User) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), u))
}

func withSessionID(req *http.Request, sid string) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), sid))
}

// withURLParam injects chi URL param (e.g. /authorized-emails/{email}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

// errCode returns the domain code carried by err, or "" for other errors.
func errCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
