package employee

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

func TestRefAcceptsIDOrObject(t *testing.T) {
	tests := []struct {
		in       string
		wantID   string
		wantName string
	}{
		{in: `"64b7f0c2a1b2c3d4e5f60718"`, wantID: "64b7f0c2a1b2c3d4e5f60718"},
		{in: `{"_id":"e1","firstName":"Asha","lastName":"Rao"}`, wantID: "e1", wantName: "Asha Rao"},
		{in: `{"id":"e2","name":"Ravi"}`, wantID: "e2", wantName: "Ravi"},
		{in: `null`},
	}
	for _, tc := range tests {
		var r Ref
		if err := json.Unmarshal([]byte(tc.in), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if r.ID != tc.wantID || r.DisplayName() != tc.wantName {
			t.Fatalf("%s: unexpected ref %+v", tc.in, r)
		}
	}
}

func TestSanitizeObjectID(t *testing.T) {
	tests := map[string]string{
		"64b7f0c2a1b2c3d4e5f60718":  "64b7f0c2a1b2c3d4e5f60718",
		" 64B7F0C2A1B2C3D4E5F60718": "64B7F0C2A1B2C3D4E5F60718",
		"not-an-id":                 "",
		"64b7f0c2a1b2c3d4e5f6071":   "",
		"":                          "",
	}
	for in, want := range tests {
		if got := SanitizeObjectID(in); got != want {
			t.Fatalf("SanitizeObjectID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpdateProfilePayload(t *testing.T) {
	var body map[string]any
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = io.WriteString(w, `{"message":"updated"}`)
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(srv.URL))
	resp, err := svc.UpdateProfile(context.Background(), "e1", ProfileInput{
		FirstName:          "Asha",
		LastName:           "Rao",
		Email:              "asha@example.com",
		ReportingManagerID: "bogus",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Message != "updated" {
		t.Fatalf("expected backend message, got %q", resp.Message)
	}
	if method != http.MethodPut || path != "/auth/employees/e1" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
	if body["name"] != "Asha Rao" {
		t.Fatalf("expected joined name, got %v", body["name"])
	}
	if v, ok := body["reportingManagerId"]; !ok || v != nil {
		t.Fatalf("expected reportingManagerId null, got %v (present=%v)", v, ok)
	}
	if _, ok := body["password"]; ok {
		t.Fatal("expected password omitted when empty")
	}
}

func TestGetAcceptsWrappedAndBareBodies(t *testing.T) {
	for _, payload := range []string{
		`{"data":{"_id":"e1","firstName":"Asha","reportingManagerId":{"_id":"64b7f0c2a1b2c3d4e5f60718"}}}`,
		`{"_id":"e1","firstName":"Asha","reportingManagerId":"64b7f0c2a1b2c3d4e5f60718"}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, payload)
		}))
		emp, err := NewService(apiclient.New(srv.URL)).Get(context.Background(), "e1")
		srv.Close()
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if emp.ID != "e1" || emp.DisplayName() != "Asha" || emp.ManagerID() != "64b7f0c2a1b2c3d4e5f60718" {
			t.Fatalf("unexpected employee %+v", emp)
		}
	}
}
