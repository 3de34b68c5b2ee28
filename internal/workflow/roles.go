package workflow

// Role identifies an actor category used for authorization checks
type Role string

const (
	RoleExporterAdmin  Role = "EXPORTER_ADMIN"
	RoleExportManager  Role = "EXPORT_MANAGER"
	RoleCustomsBroker  Role = "CUSTOMS_BROKER"
	RoleFinance        Role = "FINANCE"
	RoleCompanyAdmin   Role = "COMPANY_ADMIN"
	RoleCompanyAnalyst Role = "COMPANY_ANALYST"
)

// AllRoles lists every role known to the portal
var AllRoles = []Role{
	RoleExporterAdmin,
	RoleExportManager,
	RoleCustomsBroker,
	RoleFinance,
	RoleCompanyAdmin,
	RoleCompanyAnalyst,
}

// Valid reports whether r is a declared role
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if known == r {
			return true
		}
	}
	return false
}

// RoleSet is the set of roles permitted to act at a workflow step
type RoleSet []Role

// Contains reports whether r is a member of the set
func (s RoleSet) Contains(r Role) bool {
	for _, member := range s {
		if member == r {
			return true
		}
	}
	return false
}
