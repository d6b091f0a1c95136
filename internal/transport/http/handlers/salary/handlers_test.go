package salaryhandler

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/salary"
)

func num(v int64) apiclient.Number {
	return apiclient.NewNumber(decimal.NewFromInt(v))
}

func TestComponentsFromFormProposesGross(t *testing.T) {
	in, err := ComponentsFromForm("emp-1", url.Values{
		"basic": {"500"},
		"hra":   {"200"},
		"pf":    {"100"},
		"tds":   {""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.EmployeeID != "emp-1" {
		t.Fatalf("unexpected employee %q", in.EmployeeID)
	}
	if in.Gross.StringFixed(0) != "800" {
		t.Fatalf("expected proposed gross 800, got %s", in.Gross.String())
	}
	if !in.TDS.IsZero() {
		t.Fatalf("blank tds must be zero, got %s", in.TDS.String())
	}
}

func TestComponentsFromFormKeepsTypedGross(t *testing.T) {
	in, err := ComponentsFromForm("emp-1", url.Values{"basic": {"500"}, "gross": {"650"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Gross.StringFixed(0) != "650" {
		t.Fatalf("expected typed gross, got %s", in.Gross.String())
	}
}

func TestComponentsFromFormRejects(t *testing.T) {
	if _, err := ComponentsFromForm("emp-1", url.Values{"basic": {"lots"}}); err == nil {
		t.Fatal("expected an error for a non-numeric amount")
	}
	if _, err := ComponentsFromForm("", url.Values{"basic": {"1"}}); err == nil {
		t.Fatal("expected an error without an employee")
	}
}

func TestStatementSections(t *testing.T) {
	s := salary.Structure{
		ID:         "ss-1",
		EmployeeID: employee.Ref{ID: "emp-1", Name: "Asha Rao", EmployeeCode: "E001"},
		Gross:      num(900),
		Basic:      num(500),
		PF:         num(100),
		TDS:        num(50),
	}
	sections := Statement(s)
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}
	if sections[0].Lines[0][1] != "Asha Rao" {
		t.Fatalf("unexpected owner line %v", sections[0].Lines[0])
	}
	deductions := sections[2].Lines
	if last := deductions[len(deductions)-1]; last != [2]string{"Total deductions", "150.00"} {
		t.Fatalf("unexpected total deductions %v", last)
	}
	if sections[3].Lines[0] != [2]string{"Net pay", "750.00"} {
		t.Fatalf("unexpected net pay %v", sections[3].Lines[0])
	}
}

func TestLinesOrder(t *testing.T) {
	earnings, deductions := Lines(salary.Structure{})
	if earnings[0].Name != "ctc" || earnings[len(earnings)-1].Name != "gross" {
		t.Fatalf("unexpected earnings order %v", earnings)
	}
	if len(deductions) != 5 || deductions[0].Name != "pf" {
		t.Fatalf("unexpected deductions %v", deductions)
	}
}
