package dto

// Request bodies are decoded as-is. Field checks (presence, length, email
// syntax, role) run in the application service so every entry point shares
// the same order and error codes.

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AuthorizedEmailRequest is the body of whitelist create and role update.
// Email is ignored on update; the path carries it.
type AuthorizedEmailRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
