package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/metrics"
)

func TestRequestCarriesBearerTokenAndQuery(t *testing.T) {
	var gotAuth, gotQuery, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := WithToken(context.Background(), "abc")
	var out struct {
		OK bool `json:"ok"`
	}
	q := NewQuery().Int("page", 1).Int("limit", 10).Set("status", "absent").Set("search", "")
	if err := c.Get(ctx, "/attendance", q, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Fatal("expected decoded body")
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotQuery != "limit=10&page=1&status=absent" {
		t.Fatalf("expected only defined params, got %q", gotQuery)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept, got %q", gotAccept)
	}
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL).Post(context.Background(), "/auth/login", map[string]string{"email": "a"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvalidSessionDetection(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantInvalid bool
	}{
		{name: "401", status: http.StatusUnauthorized, body: `{}`, wantInvalid: true},
		{name: "invalid token message", status: http.StatusForbidden, body: `{"message":"Invalid Token"}`, wantInvalid: true},
		{name: "expired message", status: http.StatusBadRequest, body: `{"message":"token expired at noon"}`, wantInvalid: true},
		{name: "jwt malformed", status: http.StatusInternalServerError, body: `{"message":"JWT malformed"}`, wantInvalid: true},
		{name: "envelope message", status: http.StatusForbidden, body: `{"success":false,"error":{"code":"auth","message":"invalid token"}}`, wantInvalid: true},
		{name: "plain forbidden", status: http.StatusForbidden, body: `{"message":"not allowed"}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			var calls int32
			collector := metrics.New()
			c := New(srv.URL, WithMetrics(collector), WithInvalidate(func(context.Context) {
				atomic.AddInt32(&calls, 1)
			}))
			err := c.Get(WithToken(context.Background(), "tok"), "/leaves", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) || apiErr.Status != tc.status {
				t.Fatalf("expected *Error with status %d, got %v", tc.status, err)
			}
			if got := errors.Is(err, ErrSessionInvalid); got != tc.wantInvalid {
				t.Fatalf("expected invalid=%v, got %v", tc.wantInvalid, got)
			}
			wantCalls := int32(0)
			if tc.wantInvalid {
				wantCalls = 1
			}
			if atomic.LoadInt32(&calls) != wantCalls {
				t.Fatalf("expected %d invalidate calls, got %d", wantCalls, calls)
			}
			if collector.Snapshot()["backendFailuresTotal"].(uint64) != 1 {
				t.Fatal("expected failure recorded in metrics")
			}
		})
	}
}

func TestMessageOf(t *testing.T) {
	err := parseError(http.StatusBadRequest, []byte(`{"message":"Leave overlaps"}`))
	if got := MessageOf(err, "Submit failed"); got != "Leave overlaps" {
		t.Fatalf("expected backend message, got %q", got)
	}
	if got := MessageOf(errors.New("dial"), "Submit failed"); got != "Submit failed" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", StatusOf(err))
	}
}

func TestDownloadUsesHeadersOrFallback(t *testing.T) {
	withHeaders := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="payslip-jan.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4")
	}))
	defer withHeaders.Close()

	f, err := New(withHeaders.URL).Download(context.Background(), "/payroll/download/e1", NewQuery().Int("month", 1), "payroll_e1_1_2024.pdf")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if f.Name != "payslip-jan.pdf" || f.ContentType != "application/pdf" || string(f.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected file: %+v", f)
	}

	bare := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0x1, 0x2})
	}))
	defer bare.Close()

	f, err = New(bare.URL).Download(context.Background(), "/attendance/report/download", nil, "attendance-report.xlsx")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if f.Name != "attendance-report.xlsx" || f.ContentType != "application/octet-stream" {
		t.Fatalf("expected fallbacks, got %+v", f)
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "doc.pdf" || string(data) != "hello" {
			t.Errorf("unexpected upload %q %q", header.Filename, data)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		_, _ = io.WriteString(w, `{"url":"https://files/doc.pdf"}`)
	}))
	defer srv.Close()

	var out struct {
		URL string `json:"url"`
	}
	err := New(srv.URL).Upload(context.Background(), "/upload", UploadPart{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("hello")}, &out)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if out.URL != "https://files/doc.pdf" {
		t.Fatalf("unexpected url %q", out.URL)
	}
}
