package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

const (
	PermEmployeesRead    = "core.employees.read"
	PermEmployeesWrite   = "core.employees.write"
	PermOffersRead       = "core.offers.read"
	PermOffersWrite      = "core.offers.write"
	PermAttendanceRead   = "attendance.read"
	PermAttendanceWrite  = "attendance.write"
	PermAttendanceExport = "attendance.export"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermPayrollRead      = "payroll.read"
	PermPayrollRun       = "payroll.run"
	PermPerformanceRead  = "performance.read"
	PermPerformanceWrite = "performance.write"
	PermEngagementRead   = "engagement.read"
	PermEngagementWrite  = "engagement.write"
	PermReportsRead      = "reports.read"
	PermAuditRead        = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOffersRead,
	PermOffersWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermAttendanceExport,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermPayrollRead,
	PermPayrollRun,
	PermPerformanceRead,
	PermPerformanceWrite,
	PermEngagementRead,
	PermEngagementWrite,
	PermReportsRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermEngagementRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermEngagementRead,
		PermEngagementWrite,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOffersRead,
		PermOffersWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermAttendanceExport,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayrollRun,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermEngagementRead,
		PermEngagementWrite,
		PermReportsRead,
		PermAuditRead,
	},
}
