package leave

import (
	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
)

const (
	StatusApplied   = "applied"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// StatusFilters are the choices of the track page status filter.
var StatusFilters = []string{"all", StatusPending, StatusApproved, StatusRejected, StatusCancelled}

var AllowedTypes = []string{"casual", "medical", "earned", "maternity", "paternity", "other"}

// BalanceOrder is the row order of the balance page.
var BalanceOrder = []string{"casual", "earned", "medical", "maternity", "paternity", "other"}

const MaxDocuments = 5

type Request struct {
	ID           string           `json:"_id"`
	EmployeeID   employee.Ref     `json:"employeeId"`
	LeaveType    string           `json:"leaveType"`
	Status       string           `json:"status"`
	StartDate    apiclient.Time   `json:"startDate"`
	EndDate      apiclient.Time   `json:"endDate"`
	Days         apiclient.Number `json:"days"`
	Reason       string           `json:"reason"`
	DocumentURL  string           `json:"documentUrl"`
	DocumentURLs []string         `json:"documentUrls"`
	CreatedAt    apiclient.Time   `json:"createdAt"`
}

func (r Request) Cancellable() bool { return CanCancel(r.Status) }

type RequestQuery struct {
	Page        int
	Limit       int
	Status      string
	EmployeeIDs []string
	LeaveType   string
}

type LeaveType struct {
	ID         string           `json:"_id"`
	Type       string           `json:"type"`
	Allocation apiclient.Number `json:"allocation"`
}

type Policy struct {
	ID         string      `json:"_id"`
	Name       string      `json:"name"`
	LeaveTypes []LeaveType `json:"leaveTypes"`
}

type TypeOption struct {
	ID       string
	Type     string
	PolicyID string
}

type HistoryEntry struct {
	ID      string           `json:"_id"`
	Year    int              `json:"year"`
	Action  string           `json:"action"`
	Days    apiclient.Number `json:"days"`
	Remarks string           `json:"remarks"`
	Date    apiclient.Time   `json:"date"`
}

type BalanceHistory struct {
	LeaveType string           `json:"leaveType"`
	Allocated apiclient.Number `json:"allocated"`
	Used      apiclient.Number `json:"used"`
	Balance   apiclient.Number `json:"balance"`
	History   []HistoryEntry   `json:"history"`
}

// ApplyInput is the apply-leave form after documents were uploaded.
type ApplyInput struct {
	EmployeeID    string   `json:"employeeId" validate:"required"`
	LeavePolicyID string   `json:"leavePolicyId" validate:"required"`
	LeaveTypeID   string   `json:"leaveTypeId" validate:"required"`
	LeaveType     string   `json:"leaveType" validate:"required"`
	StartDate     string   `json:"startDate" validate:"required"`
	EndDate       string   `json:"endDate" validate:"required"`
	Days          int      `json:"days" validate:"gt=0"`
	Reason        string   `json:"reason" validate:"max=1000"`
	DocumentURL   string   `json:"documentUrl,omitempty"`
	DocumentURLs  []string `json:"documentUrls,omitempty" validate:"max=5"`
}
