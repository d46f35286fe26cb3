package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthorizedEmail is a whitelist entry: an address allowed to self-register,
// and the role the resulting account receives.
type AuthorizedEmail struct {
	Email     string
	Role      Role
	CreatedAt time.Time
}
