package payroll

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

func num(s string) apiclient.Number {
	return apiclient.NewNumber(decimal.RequireFromString(s))
}

func TestComputeNet(t *testing.T) {
	r := Record{
		GrossEarnings:   num("50000"),
		PF:              num("1800"),
		ESI:             num("0"),
		TDS:             num("2500.50"),
		ProfessionalTax: num("200"),
		OtherDeductions: num("99.50"),
		LeaveDeductions: num("1000"),
	}
	if got := ComputeNet(r); !got.Equal(decimal.RequireFromString("44400")) {
		t.Fatalf("expected net 44400, got %s", got)
	}
}

func TestComputeNetMatchesDeductionSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cents := func() apiclient.Number {
		return apiclient.NewNumber(decimal.New(rng.Int63n(10_000_000), -2))
	}
	for i := 0; i < 200; i++ {
		r := Record{
			GrossEarnings:   cents(),
			PF:              cents(),
			ESI:             cents(),
			TDS:             cents(),
			ProfessionalTax: cents(),
			OtherDeductions: cents(),
			LeaveDeductions: cents(),
		}
		want := r.GrossEarnings.Decimal
		for _, d := range []apiclient.Number{r.PF, r.ESI, r.TDS, r.ProfessionalTax, r.OtherDeductions, r.LeaveDeductions} {
			want = want.Sub(d.Decimal)
		}
		if got := ComputeNet(r); !got.Equal(want) {
			t.Fatalf("case %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestComputeNetZeroRecord(t *testing.T) {
	if got := ComputeNet(Record{}); !got.IsZero() {
		t.Fatalf("expected zero net, got %s", got)
	}
}
