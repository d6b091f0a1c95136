package attendance

import (
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "halfDay"
	StatusLate    = "late"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusHalfDay, StatusLate}

func IsKnownStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Record is one attendance day. The owner arrives as `employee` or as `employeeId`.
type Record struct {
	ID                string           `json:"_id"`
	Employee          employee.Ref     `json:"employee"`
	EmployeeID        employee.Ref     `json:"employeeId"`
	Status            string           `json:"status"`
	ClockIn           apiclient.Time   `json:"clockIn"`
	ClockOut          apiclient.Time   `json:"clockOut"`
	TotalWorkingHours apiclient.Number `json:"totalWorkingHours"`
	Date              apiclient.Time   `json:"date"`
}

// Owner returns the populated employee reference, whichever field carried it.
func (r Record) Owner() employee.Ref {
	if !r.Employee.Empty() {
		return r.Employee
	}
	return r.EmployeeID
}

type ListParams struct {
	Page       int
	Limit      int
	Status     string
	Date       string
	EmployeeID string
	StartDate  string
	EndDate    string
	Search     string
}

func (p ListParams) query() *apiclient.Query {
	return apiclient.NewQuery().
		Int("page", p.Page).
		Int("limit", p.Limit).
		Set("status", p.Status).
		Set("date", p.Date).
		Set("employeeId", p.EmployeeID).
		Set("startDate", p.StartDate).
		Set("endDate", p.EndDate).
		Set("search", p.Search)
}

// UpdateInput is a regularization of one record. Times are RFC 3339.
type UpdateInput struct {
	ClockIn  string `json:"clockIn" validate:"required"`
	ClockOut string `json:"clockOut" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

type clockPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	MarkedBy  string  `json:"markedBy,omitempty"`
}

// ClockState says which clock actions are available for today.
type ClockState struct {
	ClockedInAt  time.Time
	ClockedOutAt time.Time
	CanClockIn   bool
	CanClockOut  bool
}

// ClockStateOf derives the clock buttons from today's record, which may be nil.
// Clock-out needs a clock-in; both close once a clock-out is recorded.
func ClockStateOf(today *Record) ClockState {
	if today == nil {
		return ClockState{CanClockIn: true}
	}
	st := ClockState{ClockedInAt: today.ClockIn.Time, ClockedOutAt: today.ClockOut.Time}
	st.CanClockIn = !today.ClockIn.Set() && !today.ClockOut.Set()
	st.CanClockOut = today.ClockIn.Set() && !today.ClockOut.Set()
	return st
}
