package payroll

import "github.com/shopspring/decimal"

// Deductions sums every documented deduction field of a payroll record.
func Deductions(r Record) decimal.Decimal {
	return decimal.Sum(
		r.PF.Decimal,
		r.ESI.Decimal,
		r.TDS.Decimal,
		r.ProfessionalTax.Decimal,
		r.OtherDeductions.Decimal,
		r.LeaveDeductions.Decimal,
	)
}

// ComputeNet returns gross minus the sum of the deductions.
func ComputeNet(r Record) decimal.Decimal {
	return r.GrossEarnings.Sub(Deductions(r))
}
