package salary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

func n(v int64) apiclient.Number { return apiclient.NewNumber(decimal.NewFromInt(v)) }

func TestNetPay(t *testing.T) {
	tests := []struct {
		name string
		in   Structure
		want int64
	}{
		{name: "regular", in: Structure{Gross: n(40000), PF: n(1800), ESI: n(300), TDS: n(1000), ProfessionalTax: n(200), OtherDeductions: n(700)}, want: 36000},
		{name: "clamped at zero", in: Structure{Gross: n(1000), PF: n(1800)}, want: 0},
		{name: "empty", in: Structure{}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NetPay(tc.in); !got.Equal(decimal.NewFromInt(tc.want)) {
				t.Fatalf("expected %d, got %s", tc.want, got)
			}
		})
	}
}

func TestAutoGrossSumsComponents(t *testing.T) {
	c := Components{
		CTC: n(900000), Gross: n(1),
		Basic: n(20000), HRA: n(8000), Conveyance: n(1600), SpecialAllowance: n(5000),
		PF: n(1800), ESI: n(0), TDS: n(1000), ProfessionalTax: n(200), OtherDeductions: n(400),
	}
	if got := AutoGross(c); !got.Equal(decimal.NewFromInt(38000)) {
		t.Fatalf("expected 38000, got %s", got)
	}
}

func TestUpdateOmitsEmptyFields(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/salary-structures/s1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(srv.URL))
	if _, err := svc.Update(context.Background(), "s1", Patch{}); !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}

	basic := n(25000)
	if _, err := svc.Update(context.Background(), "s1", Patch{Basic: &basic}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(body) != 1 || body["basic"] != float64(25000) {
		t.Fatalf("expected only basic sent, got %v", body)
	}
}

func TestGetByEmployeeNotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/salary-structures/employee/e1":
			_, _ = io.WriteString(w, `{"data":{"_id":"s1","employeeId":"e1","gross":"40000","pf":1800}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Salary structure not found"}`)
		}
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(srv.URL))
	got, err := svc.GetByEmployee(context.Background(), "e1")
	if err != nil || got.ID != "s1" || !NetPay(got).Equal(decimal.NewFromInt(38200)) {
		t.Fatalf("unexpected structure %+v, %v", got, err)
	}
	missing, err := svc.GetByEmployee(context.Background(), "e2")
	if err != nil || !missing.Empty() {
		t.Fatalf("expected empty structure, got %+v, %v", missing, err)
	}
}

func TestCreateSendsZeroForBlankAmounts(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	if _, err := NewService(apiclient.New(srv.URL)).Create(context.Background(), Components{EmployeeID: "e1", Basic: n(100)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if body["employeeId"] != "e1" || body["basic"] != float64(100) || body["hra"] != float64(0) {
		t.Fatalf("unexpected body %v", body)
	}
}
