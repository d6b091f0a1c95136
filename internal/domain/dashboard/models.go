package dashboard

import (
	"fmt"
	"sort"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

type AttendanceSummary struct {
	TotalDays       int `json:"totalDays"`
	TotalAttendance int `json:"totalAttendance"`
	Present         int `json:"present"`
	Absent          int `json:"absent"`
}

type LeaveBalanceSummary struct {
	Total   apiclient.Number `json:"total"`
	Casual  apiclient.Number `json:"casual"`
	Earned  apiclient.Number `json:"earned"`
	Medical apiclient.Number `json:"medical"`
}

type PolicyType struct {
	Type       string           `json:"type"`
	Allocation apiclient.Number `json:"allocation"`
}

type PolicySummary struct {
	Name       string       `json:"name"`
	LeaveTypes []PolicyType `json:"leaveTypes"`
}

type LeavePolicySummary struct {
	ActivePolicyCount int             `json:"activePolicyCount"`
	Policies          []PolicySummary `json:"policies"`
}

type PayrollSummary struct {
	NetSalary   apiclient.Number `json:"netSalary"`
	PaymentDate apiclient.Time   `json:"paymentDate"`
}

// Employee is the employee dashboard for the current month.
type Employee struct {
	Attendance   AttendanceSummary   `json:"attendance"`
	LeaveBalance LeaveBalanceSummary `json:"leaveBalance"`
	LeavePolicy  LeavePolicySummary  `json:"leavePolicy"`
	Payroll      PayrollSummary      `json:"payroll"`
	MonthStart   apiclient.Time      `json:"monthStart"`
	MonthEnd     apiclient.Time      `json:"monthEnd"`
}

// Calendar is the organization's holiday calendar image.
type Calendar struct {
	CalendarFile     string `json:"calendarFile"`
	CalendarFileName string `json:"calendarFileName"`
}

func (c Calendar) URL() string {
	if c.CalendarFile != "" {
		return c.CalendarFile
	}
	return c.CalendarFileName
}

// Stats is the organization-wide counter set. Its keys vary by backend
// version, so only scalar values are kept.
type Stats map[string]any

type Stat struct {
	Key   string
	Value string
}

// Entries returns the scalar stats sorted by key.
func (s Stats) Entries() []Stat {
	out := make([]Stat, 0, len(s))
	for k, v := range s {
		switch val := v.(type) {
		case float64:
			out = append(out, Stat{Key: k, Value: fmt.Sprintf("%g", val)})
		case string:
			out = append(out, Stat{Key: k, Value: val})
		case bool:
			out = append(out, Stat{Key: k, Value: fmt.Sprintf("%t", val)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
