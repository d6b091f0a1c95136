package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/app/server"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/config"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
)

const (
	employeePassword = "Employee123!"
	hrPassword       = "Hr123!"
)

type backendCall struct {
	Method    string
	Path      string
	Query     url.Values
	Auth      string
	RequestID string
	Body      map[string]any
}

type account struct {
	password string
	token    string
	user     map[string]any
}

// fakeBackend stands in for the HRMS REST API and records every call it gets.
type fakeBackend struct {
	srv *httptest.Server

	mu        sync.Mutex
	calls     []backendCall
	accounts  map[string]account
	today     map[string]map[string]any
	leaves    []map[string]any
	payroll   map[string]any
	structure map[string]any
	uploads   []string
	rejectMsg string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		accounts: map[string]account{
			"asha@example.com": {
				password: employeePassword,
				token:    "tok-employee",
				user: map[string]any{
					"_id": "emp-1", "name": "Asha Rao", "email": "asha@example.com",
					"role": "employee", "organizationId": "org-1",
				},
			},
			"hr@example.com": {
				password: hrPassword,
				token:    "tok-hr",
				user: map[string]any{
					"_id": "hr-1", "name": "Hari Rao", "email": "hr@example.com",
					"role": "hr", "organizationId": "org-1",
				},
			},
		},
		today: map[string]map[string]any{},
		leaves: []map[string]any{
			{"_id": "lv-1", "employeeId": "emp-1", "leaveType": "casual", "status": "pending", "startDate": "2026-03-02", "endDate": "2026-03-03", "days": 2},
			{"_id": "lv-2", "employeeId": "emp-1", "leaveType": "medical", "status": "approved", "startDate": "2026-02-02", "endDate": "2026-02-02", "days": 1},
		},
		payroll: map[string]any{
			"_id": "pay-1", "employeeId": "emp-1", "month": 3, "year": 2026,
			"grossEarnings": 900, "basic": 500, "hra": 200, "pf": 100, "netPayable": 950, "status": "processed",
		},
		structure: map[string]any{
			"_id": "ss-1", "employeeId": "emp-1", "ctc": 12000, "gross": 900,
			"basic": 500, "hra": 200, "conveyance": 100, "pf": 100,
		},
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/auth/login", b.login)
	r.Get("/dashboard", b.reply(map[string]any{"data": map[string]any{"totalEmployees": 12}}))
	r.Get("/dashboard/employee/{id}", b.reply(map[string]any{"data": map[string]any{}}))
	r.Get("/holiday-calendar/{org}", b.fail(http.StatusNotFound, "calendar not found"))
	r.Get("/auth/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"_id": chi.URLParam(r, "id"), "firstName": "Asha", "lastName": "Rao"}})
	})
	r.Put("/auth/employees/{id}", b.reply(map[string]any{"message": "Profile updated"}))
	r.Get("/auth/employees", b.reply(map[string]any{"items": []any{}, "total": 0}))
	r.Get("/attendance", b.listAttendance)
	r.Post("/attendance/clock-in/{id}", b.clockIn)
	r.Get("/leave-policies", b.reply(map[string]any{"data": []any{
		map[string]any{"_id": "pol-1", "name": "Standard", "leaveTypes": []any{
			map[string]any{"_id": "lt-casual", "type": "casual", "allocation": 12},
			map[string]any{"_id": "lt-medical", "type": "medical", "allocation": 8},
		}},
	}}))
	r.Get("/leaves", b.listLeaves)
	r.Post("/leaves", b.reply(map[string]any{"message": "Leave applied"}))
	r.Patch("/leaves/{id}/cancel", b.reply(map[string]any{"message": "Leave cancelled"}))
	r.Post("/upload", b.upload)
	r.Get("/payroll", b.payrollList)
	r.Get("/payroll/employee/{id}", b.payrollList)
	r.Get("/payroll/employee/{id}/{month}/{year}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": b.payroll})
	})
	r.Post("/payroll/send-payslip/{id}", b.reply(map[string]any{"message": "Payslip sent"}))
	r.Get("/salary-structures/employee/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": b.structure})
	})

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

// record logs the call and, once rejectTokens was called, refuses every
// authenticated request the way the backend answers a stale JWT.
func (b *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := backendCall{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &call.Body)
			r.Body = io.NopCloser(strings.NewReader(string(raw)))
		}
		b.mu.Lock()
		b.calls = append(b.calls, call)
		reject := b.rejectMsg
		b.mu.Unlock()

		if reject != "" && call.Auth != "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": reject})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *fakeBackend) rejectTokens(message string) {
	b.mu.Lock()
	b.rejectMsg = message
	b.mu.Unlock()
}

// find returns the recorded calls matching method and path.
func (b *fakeBackend) find(method, path string) []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []backendCall
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBackend) reply(payload any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, payload)
	}
}

func (b *fakeBackend) fail(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]any{"message": message})
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad request"})
		return
	}
	acct, ok := b.accounts[body.Email]
	if !ok || acct.password != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": acct.token, "user": acct.user})
}

func (b *fakeBackend) listAttendance(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []any{}
	if rec, ok := b.today[r.URL.Query().Get("employeeId")]; ok {
		items = append(items, rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "page": 1, "totalPages": 1, "total": len(items)})
}

func (b *fakeBackend) clockIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := map[string]any{
		"_id":        "att-" + id,
		"employeeId": map[string]any{"_id": id, "firstName": "Asha", "lastName": "Rao", "employeeCode": "E001"},
		"status":     "present",
		"date":       time.Now().Format("2006-01-02"),
		"clockIn":    time.Now().UTC().Format(time.RFC3339),
	}
	b.mu.Lock()
	b.today[id] = rec
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (b *fakeBackend) listLeaves(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"items": b.leaves, "total": len(b.leaves), "page": 1, "totalPages": 1})
}

func (b *fakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "file is required"})
		return
	}
	defer file.Close()
	b.mu.Lock()
	b.uploads = append(b.uploads, header.Filename)
	n := len(b.uploads)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"url": "https://files.test/doc-" + strconv.Itoa(n)})
}

func (b *fakeBackend) payrollList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"items": []any{b.payroll}, "total": 1, "page": 1, "totalPages": 1})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type portal struct {
	URL     string
	app     *server.App
	backend *fakeBackend
}

func testConfig(backendURL string) config.Config {
	return config.Config{
		Addr:                    ":0",
		BackendURL:              backendURL,
		BackendTimeout:          5 * time.Second,
		Environment:             "test",
		LogLevel:                "error",
		SessionStore:            config.StoreMemory,
		SessionCookie:           "hrms_sid",
		SessionIdleTTL:          time.Hour,
		SessionSweepInterval:    time.Minute,
		MaxBodyBytes:            8 << 20,
		LoginRateLimitPerMinute: 100,
		DefaultLocale:           "en",
		GeoFallbackLat:          12.9716,
		GeoFallbackLng:          77.5946,
		ProfileImageMaxPx:       256,
		MetricsEnabled:          true,
	}
}

func newPortal(t *testing.T, mutate func(*config.Config)) *portal {
	t.Helper()
	backend := newFakeBackend(t)
	cfg := testConfig(backend.srv.URL)
	if mutate != nil {
		mutate(&cfg)
	}
	app, err := server.New(context.Background(), cfg, server.WithStorage(storage.NewMemory()))
	if err != nil {
		t.Fatalf("failed to start portal: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return &portal{URL: ts.URL, app: app, backend: backend}
}

// browser returns a client that keeps cookies and stops at redirects so the
// tests can assert on them.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type page struct {
	Status   int
	Location string
	Header   http.Header
	Body     string
}

func do(t *testing.T, client *http.Client, req *http.Request) page {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return page{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Header: resp.Header, Body: string(body)}
}

func get(t *testing.T, client *http.Client, target string) page {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return do(t, client, req)
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) page {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, client, req)
}

// follow fetches the page a redirect points at.
func follow(t *testing.T, client *http.Client, baseURL string, p page) page {
	t.Helper()
	if p.Status != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d: %s", p.Status, p.Body)
	}
	return get(t, client, baseURL+p.Location)
}

func signIn(t *testing.T, p *portal, email, password string) *http.Client {
	t.Helper()
	client := browser(t)
	res := postForm(t, client, p.URL+"/login", url.Values{"email": {email}, "password": {password}})
	if res.Status != http.StatusSeeOther || res.Location != "/dashboard" {
		t.Fatalf("login as %s: expected redirect to /dashboard, got %d %q", email, res.Status, res.Location)
	}
	return client
}

func expectContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("expected page to contain %q", want)
	}
}
