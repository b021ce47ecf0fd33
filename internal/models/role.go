package models

// Role is the closed set of user roles. Role values travel over the wire as
// the literal strings below, both in JSON bodies and inside token claims.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
