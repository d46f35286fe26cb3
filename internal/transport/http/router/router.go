package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type WhitelistHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health    HealthHandler
	Auth      AuthHandler
	Whitelist WhitelistHandler

	// SessionMW resolves the session cookie into a principal for every request.
	SessionMW func(http.Handler) http.Handler
	AuthMW    func(http.Handler) http.Handler
	AdminMW   func(http.Handler) http.Handler

	// Metrics serves /metrics; nil uses the default Prometheus registry.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Whitelist == nil {
		return nil, fmt.Errorf("nil Whitelist handler")
	}
	if deps.SessionMW == nil {
		return nil, fmt.Errorf("nil Session middleware")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.HTTPLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	// unknown routes and unsupported methods share one JSON 404
	notFound := func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, domain.ErrRouteNotFound())
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", deps.Metrics)

	r.Route("/auth", func(r chi.Router) {
		r.Use(deps.SessionMW)

		// --- Core auth ---
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)
		r.Get("/logout", deps.Auth.Logout)
		r.Post("/logout", deps.Auth.Logout)

		// --- Account ---
		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)
		r.With(deps.AuthMW).Put("/password", deps.Auth.ChangePassword)

		// --- Whitelist (admin) ---
		r.Route("/authorized-emails", func(r chi.Router) {
			r.Use(deps.AdminMW)

			r.Get("/", deps.Whitelist.List)
			r.Post("/", deps.Whitelist.Create)
			r.Put("/{email}", deps.Whitelist.UpdateRole)
			r.Delete("/{email}", deps.Whitelist.Delete)
		})
	})

	return r, nil
}
