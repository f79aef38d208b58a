package valueobject

// Role is the closed set of roles authorization decisions are made against.
// The token wire format keeps the role as a free string for forward
// compatibility; it is narrowed to this enumeration at the boundary.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleUnknown Role = "UNKNOWN"
)

func ParseRole(s string) Role {
	switch s {
	case string(RoleUser):
		return RoleUser
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Principal is the resolved authenticated identity attached to a request.
type Principal struct {
	Subject     string   `json:"subject"`
	Role        Role     `json:"role"`
	Authorities []string `json:"authorities"`
}

// NewPrincipal builds a principal from token claims. The authority list keeps
// the raw role string so downstream code sees exactly what was issued.
func NewPrincipal(subject, role string) Principal {
	return Principal{
		Subject:     subject,
		Role:        ParseRole(role),
		Authorities: []string{role},
	}
}

func (p Principal) HasRole(role Role) bool {
	return p.Role == role
}
