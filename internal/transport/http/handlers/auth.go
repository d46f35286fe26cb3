package http_handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		middleware.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password)
	middleware.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Str("role", u.Role.String()).
		Msg("user_registered")

	response.Created(w, dto.RegisterData{User: dto.NewAccountView(u)})
}

// Login verifies credentials and issues a fresh session cookie. A session the
// client already holds is destroyed first.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(outcome(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password, sessionID(r))
	middleware.LoginAttemptsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	security.SetSessionCookie(w, res.SessionID, h.svc.SessionTTL(), h.secureCookies)

	response.OK(w, dto.LoginData{
		Message: "Logged in",
		User:    dto.NewAccountView(res.User),
	})
}

// Logout always succeeds, with or without a live session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var userID string
	if u, ok := middleware.PrincipalFromContext(r.Context()); ok {
		userID = u.ID
	}

	h.svc.Logout(r.Context(), userID, sessionID(r))

	security.ClearSessionCookie(w, h.secureCookies)
	response.OK(w, dto.StatusData{Status: "ok"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	var req dto.PasswordChangeRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), u, req.OldPassword, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusData{Status: "ok"})
}

// outcome is the metrics label for a workflow result.
// sessionID is the cookie value the Session middleware saw, live or not.
func sessionID(r *http.Request) string {
	sid, _ := middleware.SessionIDFromContext(r.Context())
	return sid
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	// server-side failures share one label
	if domain.KindOf(err) == domain.KindInternal {
		return "internal_error"
	}
	var de *domain.Error
	errors.As(err, &de)
	return de.Code
}
