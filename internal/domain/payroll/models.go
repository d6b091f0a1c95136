package payroll

import (
	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
)

const (
	StatusProcessed = "processed"
	StatusPending   = "pending"
)

var Statuses = []string{StatusProcessed, StatusPending}

// Record is one employee's payroll for a month. Months are 1-12.
type Record struct {
	ID               string           `json:"_id"`
	EmployeeID       employee.Ref     `json:"employeeId"`
	Month            int              `json:"month"`
	Year             int              `json:"year"`
	GrossEarnings    apiclient.Number `json:"grossEarnings"`
	Basic            apiclient.Number `json:"basic"`
	HRA              apiclient.Number `json:"hra"`
	Conveyance       apiclient.Number `json:"conveyance"`
	SpecialAllowance apiclient.Number `json:"specialAllowance"`
	PF               apiclient.Number `json:"pf"`
	ESI              apiclient.Number `json:"esi"`
	TDS              apiclient.Number `json:"tds"`
	ProfessionalTax  apiclient.Number `json:"professionalTax"`
	OtherDeductions  apiclient.Number `json:"otherDeductions"`
	LossOfPayDays    apiclient.Number `json:"lossOfPayDays"`
	LeaveDeductions  apiclient.Number `json:"leaveDeductions"`
	NetPayable       apiclient.Number `json:"netPayable"`
	TotalWorkedDays  apiclient.Number `json:"totalWorkedDays"`
	Status           string           `json:"status"`
}

type ListQuery struct {
	Page  int
	Limit int
	Month int
	Year  int
}

type CreateInput struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Month      int    `json:"month" validate:"min=1,max=12"`
	Year       int    `json:"year" validate:"min=2000,max=2100"`
}

// UpdateInput carries the edited fields. Nil numbers are left out so the
// backend keeps the stored value.
type UpdateInput struct {
	Status           string            `json:"status,omitempty" validate:"omitempty,oneof=processed pending"`
	Month            int               `json:"month"`
	Year             int               `json:"year"`
	GrossEarnings    *apiclient.Number `json:"grossEarnings,omitempty"`
	Basic            *apiclient.Number `json:"basic,omitempty"`
	HRA              *apiclient.Number `json:"hra,omitempty"`
	Conveyance       *apiclient.Number `json:"conveyance,omitempty"`
	SpecialAllowance *apiclient.Number `json:"specialAllowance,omitempty"`
	PF               *apiclient.Number `json:"pf,omitempty"`
	ESI              *apiclient.Number `json:"esi,omitempty"`
	TDS              *apiclient.Number `json:"tds,omitempty"`
	ProfessionalTax  *apiclient.Number `json:"professionalTax,omitempty"`
	OtherDeductions  *apiclient.Number `json:"otherDeductions,omitempty"`
	LossOfPayDays    *apiclient.Number `json:"lossOfPayDays,omitempty"`
	LeaveDeductions  *apiclient.Number `json:"leaveDeductions,omitempty"`
	NetPayable       *apiclient.Number `json:"netPayable,omitempty"`
	TotalWorkedDays  *apiclient.Number `json:"totalWorkedDays,omitempty"`
}

// NumericFields lists the editable numeric fields in form order, pointing
// into in so a form decoder can fill them by name.
func (in *UpdateInput) NumericFields() []NumericField {
	return []NumericField{
		{"grossEarnings", &in.GrossEarnings},
		{"basic", &in.Basic},
		{"hra", &in.HRA},
		{"conveyance", &in.Conveyance},
		{"specialAllowance", &in.SpecialAllowance},
		{"pf", &in.PF},
		{"esi", &in.ESI},
		{"tds", &in.TDS},
		{"professionalTax", &in.ProfessionalTax},
		{"otherDeductions", &in.OtherDeductions},
		{"lossOfPayDays", &in.LossOfPayDays},
		{"leaveDeductions", &in.LeaveDeductions},
		{"netPayable", &in.NetPayable},
		{"totalWorkedDays", &in.TotalWorkedDays},
	}
}

type NumericField struct {
	Name  string
	Value **apiclient.Number
}

func FallbackFileName(employeeID string, month, year int) string {
	return "payroll_" + employeeID + "_" + itoa(month) + "_" + itoa(year) + ".pdf"
}
