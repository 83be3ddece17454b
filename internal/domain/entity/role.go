package entity

// Role represents a user role in the system
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePractitioner Role = "practitioner"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RolePractitioner
}
