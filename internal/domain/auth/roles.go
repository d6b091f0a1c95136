package auth

const (
	RoleSuperAdmin   = "superAdmin"
	RoleCompanyAdmin = "companyAdmin"
	RoleHR           = "hr"
	RoleEmployee     = "employee"
)

var KnownRoles = []string{RoleSuperAdmin, RoleCompanyAdmin, RoleHR, RoleEmployee}

func IsKnownRole(role string) bool {
	for _, r := range KnownRoles {
		if r == role {
			return true
		}
	}
	return false
}
