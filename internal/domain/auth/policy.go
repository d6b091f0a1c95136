package auth

// Route patterns and in-page actions that carry a role set.
const (
	RouteEmployees          = "/employees"
	RouteAttendance         = "/attendance"
	RouteEmployeeAttendance = "/attendance/employee/{id}"
	RoutePayroll            = "/payroll"
	RouteSalarySlips        = "/salary-slips"
	RouteLeaves             = "/leaves"
	RouteLeavePolicy        = "/leaves/policy"
	RouteLeaveBalance       = "/leaves/balance"
	RouteLeaveTrack         = "/leaves/track"
	RouteLeaveRequests      = "/leaves/requests"
	RouteApplyLeave         = "/apply-leave"

	ActionUploadCalendar    = "action:calendar.upload"
	ActionEditAttendance    = "action:attendance.edit"
	ActionManagePayroll     = "action:payroll.manage"
	ActionManageSalary      = "action:salary.manage"
	ActionViewOtherEmployee = "action:employee.view-other"
)

var (
	staff    = []string{RoleCompanyAdmin, RoleHR}
	everyone = []string{RoleCompanyAdmin, RoleHR, RoleEmployee}
)

// DefaultRoleSets is the portal's route and action table. Patterns absent from
// the table are open to any authenticated user.
var DefaultRoleSets = map[string][]string{
	RouteEmployees:          staff,
	RouteAttendance:         everyone,
	RouteEmployeeAttendance: staff,
	RoutePayroll:            everyone,
	RouteSalarySlips:        everyone,
	RouteLeaves:             staff,
	RouteLeavePolicy:        everyone,
	RouteLeaveBalance:       everyone,
	RouteLeaveTrack:         everyone,
	RouteLeaveRequests:      staff,
	RouteApplyLeave:         everyone,

	ActionUploadCalendar:    staff,
	ActionEditAttendance:    staff,
	ActionManagePayroll:     staff,
	ActionManageSalary:      staff,
	ActionViewOtherEmployee: staff,
}

// Policy is the single place role decisions are made.
type Policy struct {
	roleSets map[string]map[string]struct{}
}

func NewPolicy(roleSets map[string][]string) *Policy {
	p := &Policy{roleSets: make(map[string]map[string]struct{}, len(roleSets))}
	for pattern, roles := range roleSets {
		set := make(map[string]struct{}, len(roles))
		for _, role := range roles {
			set[role] = struct{}{}
		}
		p.roleSets[pattern] = set
	}
	return p
}

func DefaultPolicy() *Policy {
	return NewPolicy(DefaultRoleSets)
}

// Gated reports whether pattern has a role set.
func (p *Policy) Gated(pattern string) bool {
	_, ok := p.roleSets[pattern]
	return ok
}

// Allows reports whether an authenticated user with role may use pattern.
// An empty or unknown role never passes a gated pattern.
func (p *Policy) Allows(role, pattern string) bool {
	set, ok := p.roleSets[pattern]
	if !ok {
		return true
	}
	if !IsKnownRole(role) {
		return false
	}
	_, ok = set[role]
	return ok
}
