package model

// Role is the fixed set of user roles.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleSchoolAdmin Role = "SCHOOL_ADMIN"
	RoleTeacher     Role = "TEACHER"
	RoleStudent     Role = "STUDENT"
	RoleParent      Role = "PARENT"
)

// AllRoles lists every valid role.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleSchoolAdmin,
	RoleTeacher,
	RoleStudent,
	RoleParent,
}

// Valid reports whether r is one of AllRoles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}
