package user

// Role of an authenticated caller as reported by the identity service.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Principal is the authenticated identity attached to every request. The
// engine trusts it; verification happens at the gatekeeper boundary.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
