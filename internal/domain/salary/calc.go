package salary

import "github.com/shopspring/decimal"

// Deductions is pf + esi + tds + professionalTax + otherDeductions.
func Deductions(s Structure) decimal.Decimal {
	return decimal.Sum(
		s.PF.Decimal,
		s.ESI.Decimal,
		s.TDS.Decimal,
		s.ProfessionalTax.Decimal,
		s.OtherDeductions.Decimal,
	)
}

// NetPay is gross less deductions, never below zero.
func NetPay(s Structure) decimal.Decimal {
	net := s.Gross.Sub(Deductions(s))
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// AutoGross is the gross proposed by the create form until the user types one:
// the sum of every component field except ctc and gross.
func AutoGross(c Components) decimal.Decimal {
	return decimal.Sum(
		c.Basic.Decimal,
		c.HRA.Decimal,
		c.Conveyance.Decimal,
		c.SpecialAllowance.Decimal,
		c.PF.Decimal,
		c.ESI.Decimal,
		c.TDS.Decimal,
		c.ProfessionalTax.Decimal,
		c.OtherDeductions.Decimal,
	)
}
