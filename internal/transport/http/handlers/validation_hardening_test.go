package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/config"
)

func TestLoginValidation(t *testing.T) {
	p := newPortal(t, nil)
	client := browser(t)

	res := postForm(t, client, p.URL+"/login", url.Values{"email": {"not-an-email"}, "password": {""}})
	if res.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Status)
	}
	expectContains(t, res.Body, "not-an-email")
	if n := len(p.backend.find(http.MethodPost, "/auth/login")); n != 0 {
		t.Fatalf("invalid form must not reach the backend, got %d calls", n)
	}
}

func TestLoginRateLimit(t *testing.T) {
	p := newPortal(t, func(cfg *config.Config) {
		cfg.LoginRateLimitPerMinute = 2
	})
	client := browser(t)
	form := url.Values{"email": {"asha@example.com"}, "password": {"wrong"}}

	for i := 0; i < 2; i++ {
		res := postForm(t, client, p.URL+"/login", form)
		if res.Status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, res.Status)
		}
	}
	res := postForm(t, client, p.URL+"/login", form)
	if res.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", res.Status)
	}
	expectContains(t, res.Body, "Too many login attempts")
	if n := len(p.backend.find(http.MethodPost, "/auth/login")); n != 2 {
		t.Fatalf("throttled attempt must not reach the backend, got %d calls", n)
	}
}

func TestLeaveApplyDocumentLimit(t *testing.T) {
	p := newPortal(t, nil)
	client := signIn(t, p, "asha@example.com", employeePassword)

	var files []attachment
	for i := 0; i < 6; i++ {
		files = append(files, attachment{field: "documents", name: fmt.Sprintf("doc-%d.txt", i), data: []byte("x")})
	}
	res := postMultipart(t, client, p.URL+"/apply-leave", map[string]string{
		"leaveTypeId": "lt-medical",
		"startDate":   "2026-03-02",
		"endDate":     "2026-03-02",
	}, files...)
	if res.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Status)
	}
	expectContains(t, res.Body, "You can upload up to 5 documents.")
	if n := len(p.backend.find(http.MethodPost, "/upload")); n != 0 {
		t.Fatalf("expected no uploads, got %d", n)
	}
}

func TestAttendanceEditRejectsClockOrder(t *testing.T) {
	p := newPortal(t, nil)
	hr := signIn(t, p, "hr@example.com", hrPassword)

	res := postForm(t, hr, p.URL+"/attendance/employee/emp-1/att-1", url.Values{
		"date":     {"2026-03-02"},
		"clockIn":  {"18:00"},
		"clockOut": {"09:00"},
	})
	if res.Status != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Status)
	}
	if n := len(p.backend.find(http.MethodPatch, "/attendance/emp-1/att-1")); n != 0 {
		t.Fatalf("invalid times must not be sent, got %d calls", n)
	}

	employee := signIn(t, p, "asha@example.com", employeePassword)
	res = postForm(t, employee, p.URL+"/attendance/employee/emp-1/att-1", url.Values{
		"date":     {"2026-03-02"},
		"clockIn":  {"09:00"},
		"clockOut": {"18:00"},
	})
	if res.Status != http.StatusSeeOther || res.Location != "/dashboard" {
		t.Fatalf("expected employee to be refused, got %d %q", res.Status, res.Location)
	}
	if n := len(p.backend.find(http.MethodPatch, "/attendance/emp-1/att-1")); n != 0 {
		t.Fatalf("refused edit must not be sent, got %d calls", n)
	}
}
