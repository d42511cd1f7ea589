package domain

// Role is the closed set of session roles carried in tokens.
type Role string

const (
	RoleCustomer   Role = "usuario"
	RoleTechnician Role = "tecnico"
	RoleAdmin      Role = "admin"

	// RoleUnknown is issued for a numeric role id with no mapping. No
	// permission entry exists for it, so the guard always denies it.
	RoleUnknown Role = "desconocido"
)

// Numeric role ids as stored by the credential store.
const (
	RoleIDCustomer   = 1
	RoleIDTechnician = 2
	RoleIDAdmin      = 3
)

var roleByID = map[int]Role{
	RoleIDCustomer:   RoleCustomer,
	RoleIDTechnician: RoleTechnician,
	RoleIDAdmin:      RoleAdmin,
}

// Roles lists every enumerated role that must appear in the permission table.
func Roles() []Role {
	return []Role{RoleCustomer, RoleTechnician, RoleAdmin}
}

// RoleFromID translates a stored role id into its session role.
func RoleFromID(id int) Role {
	if role, ok := roleByID[id]; ok {
		return role
	}
	return RoleUnknown
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleTechnician, RoleAdmin:
		return true
	default:
		return false
	}
}

// LandingPath is where a freshly signed-in user of this role is sent.
func (r Role) LandingPath() string {
	if !r.Valid() {
		return "/"
	}
	return "/" + string(r)
}
