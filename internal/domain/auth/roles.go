package auth

import "strings"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Roles lists the closed role enum from most to least privileged.
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Level orders roles for hierarchical checks. Unknown roles rank with employee.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	default:
		return 1
	}
}

func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts the internal role names only, case-insensitively.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

// OrEmployee maps anything outside the enum to employee.
func (r Role) OrEmployee() Role {
	if r.Valid() {
		return r
	}
	return RoleEmployee
}

var (
	adminMarkers   = map[string]struct{}{"ADMIN": {}, "SUPER_ADMIN": {}, "SYSTEM_ADMIN": {}, "SYSADMIN": {}}
	managerMarkers = map[string]struct{}{"MANAGER": {}, "HR": {}, "HR_MANAGER": {}}
)

// NormalizeRoles folds the role identifiers returned by the auth service into
// exactly one internal role. Admin beats manager, and employee is the fallback.
func NormalizeRoles(serverRoles []string) Role {
	manager := false
	for _, raw := range serverRoles {
		name := strings.ToUpper(strings.TrimSpace(raw))
		name = strings.TrimPrefix(name, "ROLE_")
		name = strings.ReplaceAll(name, "-", "_")
		if _, ok := adminMarkers[name]; ok {
			return RoleAdmin
		}
		if _, ok := managerMarkers[name]; ok {
			manager = true
		}
	}
	if manager {
		return RoleManager
	}
	return RoleEmployee
}
