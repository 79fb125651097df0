package domain

// Role represents a capability level attached to a principal at
// authentication time
type Role string

const (
	// RoleAdmin may transition any SPV's status
	RoleAdmin Role = "admin"
	// RoleMember may create and submit their own SPVs
	RoleMember Role = "member"
)

// Principal is the authenticated identity acting on an SPV.
// The role is resolved once, when the principal is built; nothing downstream
// re-checks identities against a role table.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the principal holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// SystemUserID is recorded as the acting user on entries the system
// synthesizes itself (e.g. the lazy "SPV Created" backfill).
const SystemUserID = "system"
