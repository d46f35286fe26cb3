package http_handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/response"
)

// WhitelistHandler serves the admin-only authorized-email endpoints.
// Routes are mounted behind middleware.RequireAdmin.
type WhitelistHandler struct {
	svc *auth.Service
}

func NewWhitelistHandler(svc *auth.Service) *WhitelistHandler {
	return &WhitelistHandler{svc: svc}
}

func (h *WhitelistHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAuthorizedEmails(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAuthorizedEmailList(list))
}

func (h *WhitelistHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.PrincipalFromContext(r.Context())

	var req dto.AuthorizedEmailRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	created, err := h.svc.AddAuthorizedEmail(r.Context(), actor, req.Email, req.Role)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.AuthorizedData{Authorized: dto.NewAuthorizedEmailView(created)})
}

func (h *WhitelistHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.PrincipalFromContext(r.Context())

	email, err := emailParam(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.AuthorizedEmailRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.UpdateAuthorizedRole(r.Context(), actor, email, req.Role); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.NoContent(w)
}

func (h *WhitelistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.PrincipalFromContext(r.Context())

	email, err := emailParam(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.RemoveAuthorizedEmail(r.Context(), actor, email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.NoContent(w)
}

// emailParam reads {email} from the path. chi hands back the raw segment when
// the request path was escaped (e.g. %2B for '+').
func emailParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "email")
	email, err := url.PathUnescape(raw)
	if err != nil {
		return "", domain.ErrInvalidEmail(raw)
	}
	return email, nil
}
