package i18n

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/requestctx"
)

func TestMatchAcceptLanguage(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}

	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en"},
		{header: "hi-IN,hi;q=0.9,en;q=0.8", want: "hi"},
		{header: "fr-FR", want: "en"},
		{header: "en-GB", want: "en"},
		{header: ";;;", want: "en"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.header, func(t *testing.T) {
			if got := tr.Match(tc.header); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTranslateWithTemplateAndFallback(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}

	ctx := requestctx.WithLocale(context.Background(), "en")
	if got := tr.T(ctx, "access_denied", map[string]any{"Path": "/employees"}); got != "You don't have access to /employees. Redirected to dashboard." {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := tr.T(ctx, "load_failed_attendance"); got != "Failed to load attendance data" {
		t.Fatalf("unexpected message: %q", got)
	}

	hi := requestctx.WithLocale(context.Background(), "hi")
	if got := tr.T(hi, "load_failed_salary"); got != "Failed to fetch salary structure" {
		t.Fatalf("expected english fallback for missing hindi message, got %q", got)
	}
	if got := tr.T(ctx, "no_such_message"); got != "no_such_message" {
		t.Fatalf("expected id echoed for unknown message, got %q", got)
	}
}

func TestInUsesExplicitLocale(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}
	if got := tr.In("hi", "clock_in_done", nil); got == "Clocked in" || got == "clock_in_done" {
		t.Fatalf("expected hindi message, got %q", got)
	}
	if got := tr.In("", "clock_in_done", nil); got != "Clocked in" {
		t.Fatalf("expected default locale, got %q", got)
	}
}

func TestEveryLocaleCoversEnglishMessages(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}
	load := func(name string) map[string]string {
		raw, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		out := map[string]string{}
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return out
	}
	english := load("en.json")
	hindi := load("hi.json")
	data := map[string]any{"Path": "/employees", "Month": 3, "Year": 2026, "Count": 1, "Max": 5}

	var fellBack int
	for id := range english {
		got := tr.In("hi", id, data)
		if got == id || got == "" {
			t.Fatalf("hindi render of %q returned the raw id", id)
		}
		if _, ok := hindi[id]; !ok {
			fellBack++
			if want := tr.In("en", id, data); got != want {
				t.Fatalf("expected english fallback %q for %q, got %q", want, id, got)
			}
		}
	}
	if fellBack == 0 {
		t.Log("hindi locale covers every message")
	}
}
