package user

type Permission string

const (
	// Check clock ledger
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceApprove Permission = "attendance.approve"

	// Location settings
	PermissionSettingsManage Permission = "settings.manage"

	// Reports
	PermissionReportsExport Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewAll,
		PermissionAttendanceCreate,
		PermissionAttendanceApprove,
		PermissionSettingsManage,
		PermissionReportsExport,
	},
	RoleManager: {
		PermissionAttendanceViewAll,
		PermissionAttendanceCreate,
		PermissionAttendanceApprove,
		PermissionReportsExport,
	},
	RoleEmployee: {
		PermissionAttendanceCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
