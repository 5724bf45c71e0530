package rbac

const (
	PermReportGenerate = "report:generate"
	PermReportExport   = "report:export"
	PermReportLogView  = "reportlog:view"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"student": {
		PermReportGenerate,
		PermReportExport,
	},
	"teacher": {
		"report:*",
		PermReportLogView,
	},
	"admin": {
		"*",
	},
}

// KnownRole reports whether role appears in the default policy.
func KnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
