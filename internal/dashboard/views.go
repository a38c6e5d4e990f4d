package dashboard

import "github.com/AttendFlow/AF-Backend/internal/store"

// Navigable views of the client shell.
const (
	ViewDashboard  = "dashboard"
	ViewAttendance = "attendance"
	ViewReports    = "reports"
	ViewInsights   = "insights"
	ViewAudit      = "audit"
	ViewUsers      = "users"
)

// viewRoles is the declarative view -> allowed-roles table. Role gating lives
// here instead of scattered rendering branches so it can be tested directly.
var viewRoles = map[string][]string{
	ViewDashboard:  {store.RoleSuperAdmin, store.RoleAdmin, store.RoleHOD, store.RoleTeacher, store.RoleStudent},
	ViewAttendance: {store.RoleSuperAdmin, store.RoleAdmin, store.RoleHOD, store.RoleTeacher, store.RoleStudent},
	ViewReports:    {store.RoleSuperAdmin, store.RoleAdmin, store.RoleHOD, store.RoleTeacher, store.RoleStudent},
	ViewInsights:   {store.RoleSuperAdmin, store.RoleAdmin, store.RoleHOD, store.RoleTeacher, store.RoleStudent},
	ViewAudit:      {store.RoleSuperAdmin},
	ViewUsers:      {store.RoleSuperAdmin, store.RoleAdmin},
}

// CanAccessView reports whether a role may open a view. Unknown views are
// denied.
func CanAccessView(role, view string) bool {
	for _, allowed := range viewRoles[view] {
		if allowed == role {
			return true
		}
	}
	return false
}
