package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

func TestForEmployeeDecodesSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/employee/e1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{
			"attendance":{"totalDays":22,"totalAttendance":18,"present":17,"absent":4},
			"leaveBalance":{"total":20,"casual":8,"earned":10,"medical":2},
			"leavePolicy":{"activePolicyCount":1,"policies":[{"name":"Standard","leaveTypes":[{"type":"casual","allocation":12}]}]},
			"payroll":{"netSalary":"48200.50","paymentDate":null},
			"monthStart":"2024-03-01","monthEnd":"2024-03-31"
		}`)
	}))
	defer srv.Close()

	d, err := NewService(apiclient.New(srv.URL)).ForEmployee(context.Background(), "e1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Attendance.Present != 17 || d.LeaveBalance.Total.IntPart() != 20 || d.LeavePolicy.ActivePolicyCount != 1 {
		t.Fatalf("unexpected dashboard %+v", d)
	}
	if d.Payroll.NetSalary.String() != "48200.5" || d.Payroll.PaymentDate.Set() || d.MonthEnd.Day() != 31 {
		t.Fatalf("unexpected payroll/month %+v", d)
	}
}

func TestHolidayCalendar(t *testing.T) {
	var saved map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/holiday-calendar/org1":
			_, _ = io.WriteString(w, `{"data":{"calendarFile":"https://cdn/cal.png","calendarFileName":"cal.png"}}`)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"No calendar"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/holiday-calendar/org1":
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &saved)
			_, _ = io.WriteString(w, `{"message":"saved"}`)
		}
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(srv.URL))
	cal, err := svc.HolidayCalendar(context.Background(), "org1")
	if err != nil || cal == nil || cal.URL() != "https://cdn/cal.png" {
		t.Fatalf("unexpected calendar %+v, %v", cal, err)
	}
	missing, err := svc.HolidayCalendar(context.Background(), "org2")
	if err != nil || missing != nil {
		t.Fatalf("expected no calendar, got %+v, %v", missing, err)
	}
	if _, err := svc.SaveHolidayCalendar(context.Background(), "org1", "https://cdn/new.png"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved["calendarFileName"] != "https://cdn/new.png" {
		t.Fatalf("expected full url saved, got %v", saved)
	}
}

func TestStatsEntriesSorted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"totalEmployees":42,"activeLeaves":3,"nested":{"x":1},"label":"Q1"}}`)
	}))
	defer srv.Close()

	stats, err := NewService(apiclient.New(srv.URL)).Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	entries := stats.Entries()
	if len(entries) != 3 || entries[0].Key != "activeLeaves" || entries[2].Value != "42" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
