package constants

import "fmt"

// Role values stored on users.role.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleUser       = "USER"
)

// roleRanks orders roles for the "X or above" predicates.
var roleRanks = map[string]int{
	RoleSuperAdmin: 3,
	RoleAdmin:      2,
	RoleSupervisor: 1,
	RoleUser:       0,
}

func RoleRank(role string) int {
	if r, ok := roleRanks[role]; ok {
		return r
	}
	return -1
}

func IsAdminOrAbove(role string) bool      { return RoleRank(role) >= 2 }
func IsSupervisorOrAbove(role string) bool { return RoleRank(role) >= 1 }

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleSupervisor,
		RoleAdmin,
		RoleSuperAdmin,
	}

	SupervisorAndAbove = []string{
		RoleSupervisor,
		RoleAdmin,
		RoleSuperAdmin,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleSuperAdmin,
	}

	SuperAdminOnly = []string{
		RoleSuperAdmin,
	}
)

// Error message templates for role checks.
const (
	ErrOnlyAdminsCanAccess      = "Only admins may access %s."
	ErrOnlySupervisorsCanAccess = "Only supervisors or admins may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSupervisor(feature string) string {
	return fmt.Sprintf(ErrOnlySupervisorsCanAccess, feature)
}
