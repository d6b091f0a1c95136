package payroll

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

func TestListByEmployeeUsesSkip(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = io.WriteString(w, `{"data":[{"_id":"p1","employeeId":{"_id":"e1","firstName":"Asha"},"month":3,"year":2024,"grossEarnings":50000,"pf":"1800","netPayable":48200}],"total":12}`)
	}))
	defer srv.Close()

	page, err := NewService(apiclient.New(srv.URL)).ListByEmployee(context.Background(), "e1", ListQuery{Page: 2, Month: 3, Year: 2024})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotPath != "/payroll/employee/e1" || gotQuery != "limit=10&month=3&skip=10&year=2024" {
		t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
	}
	if page.Page != 2 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	rec := page.Items[0]
	if rec.EmployeeID.ID != "e1" || !ComputeNet(rec).Equal(decimal.NewFromInt(48200)) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestUpdateSendsMonthYearAndOmitsUnsetNumbers(t *testing.T) {
	var gotQuery string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/payroll/p1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = io.WriteString(w, `{"message":"Payroll updated"}`)
	}))
	defer srv.Close()

	basic := apiclient.NewNumber(decimal.NewFromInt(30000))
	resp, err := NewService(apiclient.New(srv.URL)).Update(context.Background(), "p1", UpdateInput{
		Status: StatusProcessed, Month: 3, Year: 2024, Basic: &basic,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Message != "Payroll updated" || gotQuery != "month=3&year=2024" {
		t.Fatalf("unexpected response %q / query %q", resp.Message, gotQuery)
	}
	if body["basic"] != float64(30000) || body["status"] != StatusProcessed || body["month"] != float64(3) {
		t.Fatalf("unexpected body %v", body)
	}
	if _, ok := body["hra"]; ok {
		t.Fatalf("expected unset hra omitted, got %v", body)
	}
}

func TestDownloadUsesServerFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payroll/download/e1" || r.URL.RawQuery != "month=3&year=2024" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="slip-march.pdf"`)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	file, err := NewService(apiclient.New(srv.URL)).Download(context.Background(), "e1", 3, 2024)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if file.Name != "slip-march.pdf" || file.ContentType != "application/pdf" {
		t.Fatalf("unexpected file %+v", file)
	}
	if got := FallbackFileName("e1", 3, 2024); got != "payroll_e1_3_2024.pdf" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}

func TestSendPayslipReturnsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payroll/send-payslip/e1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"message":"Payslip emailed"}`)
	}))
	defer srv.Close()

	resp, err := NewService(apiclient.New(srv.URL)).SendPayslip(context.Background(), "e1", 3, 2024)
	if err != nil || resp.Message != "Payslip emailed" {
		t.Fatalf("unexpected result %+v, %v", resp, err)
	}
}
