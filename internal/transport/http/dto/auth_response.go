package dto

import "github.com/baechuer/real-time-ressys/services/access-service/internal/domain"

// AccountView is the public shape of an account: no id, no hash.
type AccountView struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserView is returned by /auth/me.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthorizedEmailView struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RegisterData is returned by register.
type RegisterData struct {
	User AccountView `json:"user"`
}

// LoginData is returned by login.
type LoginData struct {
	Message string      `json:"message"`
	User    AccountView `json:"user"`
}

// MeData is returned by /me.
type MeData struct {
	User UserView `json:"user"`
}

type StatusData struct {
	Status string `json:"status"` // "ok"
}

type AuthorizedData struct {
	Authorized AuthorizedEmailView `json:"authorized"`
}

func NewAccountView(u domain.User) AccountView {
	return AccountView{Email: u.Email, Role: u.Role.String()}
}

func NewUserView(u domain.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Role: u.Role.String()}
}

func NewAuthorizedEmailView(a domain.AuthorizedEmail) AuthorizedEmailView {
	return AuthorizedEmailView{Email: a.Email, Role: a.Role.String()}
}

// NewAuthorizedEmailList never returns nil so an empty whitelist encodes as [].
func NewAuthorizedEmailList(list []domain.AuthorizedEmail) []AuthorizedEmailView {
	out := make([]AuthorizedEmailView, 0, len(list))
	for _, a := range list {
		out = append(out, NewAuthorizedEmailView(a))
	}
	return out
}
