package salary

import (
	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
)

// Structure is an employee's fixed monthly compensation breakdown.
type Structure struct {
	ID               string           `json:"_id"`
	EmployeeID       employee.Ref     `json:"employeeId"`
	CTC              apiclient.Number `json:"ctc"`
	Basic            apiclient.Number `json:"basic"`
	Gross            apiclient.Number `json:"gross"`
	HRA              apiclient.Number `json:"hra"`
	Conveyance       apiclient.Number `json:"conveyance"`
	SpecialAllowance apiclient.Number `json:"specialAllowance"`
	PF               apiclient.Number `json:"pf"`
	ESI              apiclient.Number `json:"esi"`
	TDS              apiclient.Number `json:"tds"`
	ProfessionalTax  apiclient.Number `json:"professionalTax"`
	OtherDeductions  apiclient.Number `json:"otherDeductions"`
}

func (s Structure) Empty() bool { return s.ID == "" }

// Components is the create form. Every amount is sent, zero when left blank.
type Components struct {
	EmployeeID       string           `json:"employeeId" validate:"required"`
	CTC              apiclient.Number `json:"ctc"`
	Basic            apiclient.Number `json:"basic"`
	Gross            apiclient.Number `json:"gross"`
	HRA              apiclient.Number `json:"hra"`
	Conveyance       apiclient.Number `json:"conveyance"`
	SpecialAllowance apiclient.Number `json:"specialAllowance"`
	PF               apiclient.Number `json:"pf"`
	ESI              apiclient.Number `json:"esi"`
	TDS              apiclient.Number `json:"tds"`
	ProfessionalTax  apiclient.Number `json:"professionalTax"`
	OtherDeductions  apiclient.Number `json:"otherDeductions"`
}

// Patch is the edit form. Nil fields are omitted so the backend keeps them.
type Patch struct {
	Basic            *apiclient.Number `json:"basic,omitempty"`
	HRA              *apiclient.Number `json:"hra,omitempty"`
	Gross            *apiclient.Number `json:"gross,omitempty"`
	CTC              *apiclient.Number `json:"ctc,omitempty"`
	Conveyance       *apiclient.Number `json:"conveyance,omitempty"`
	SpecialAllowance *apiclient.Number `json:"specialAllowance,omitempty"`
	PF               *apiclient.Number `json:"pf,omitempty"`
	ESI              *apiclient.Number `json:"esi,omitempty"`
	TDS              *apiclient.Number `json:"tds,omitempty"`
	ProfessionalTax  *apiclient.Number `json:"professionalTax,omitempty"`
	OtherDeductions  *apiclient.Number `json:"otherDeductions,omitempty"`
}

func (p *Patch) Fields() []Field {
	return []Field{
		{"basic", &p.Basic},
		{"hra", &p.HRA},
		{"gross", &p.Gross},
		{"ctc", &p.CTC},
		{"conveyance", &p.Conveyance},
		{"specialAllowance", &p.SpecialAllowance},
		{"pf", &p.PF},
		{"esi", &p.ESI},
		{"tds", &p.TDS},
		{"professionalTax", &p.ProfessionalTax},
		{"otherDeductions", &p.OtherDeductions},
	}
}

func (p Patch) Empty() bool {
	for _, f := range p.Fields() {
		if *f.Value != nil {
			return false
		}
	}
	return true
}

type Field struct {
	Name  string
	Value **apiclient.Number
}
