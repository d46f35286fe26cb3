package domain

type Role string

const (
	// Default role of an account created without a whitelist grant.
	RoleVisitor Role = "VISITOR"
	// Staff account; may use the service but not administer it.
	RoleEmployee Role = "EMPLOYEE"
	// Manages the registration whitelist.
	RoleAdmin Role = "ADMIN"
)

func (r Role) String() string { return string(r) }

// IsValidRole reports whether r is a role a User may carry.
func IsValidRole(r string) bool {
	return r == string(RoleVisitor) || r == string(RoleEmployee) || r == string(RoleAdmin)
}

// IsGrantableRole reports whether r may be granted through the whitelist.
// VISITOR is a store-side default only.
func IsGrantableRole(r string) bool {
	return r == string(RoleEmployee) || r == string(RoleAdmin)
}
