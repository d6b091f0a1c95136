package audit

import (
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
)

func TestTrailKeepsNewestWithinCapacity(t *testing.T) {
	trail := New(2)
	trail.Record(session.Event{Kind: session.EventLogin, SessionID: "0f8fad5b-d9cb-469f-a165-70867728950e"})
	trail.Record(session.Event{Kind: session.EventInvalidated, SessionID: "short"})
	trail.Record(session.Event{Kind: session.EventLogout, SessionID: "7c9e6679-7425-40de-944b-e07fc1f90ae7"})

	events := trail.List(Filter{})
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != "logout" || events[1].Kind != "invalidated" {
		t.Fatalf("expected newest first, got %+v", events)
	}
	if events[0].SessionID != "7c9e6679" {
		t.Fatalf("expected shortened session id, got %q", events[0].SessionID)
	}
	if events[1].SessionID != "short" {
		t.Fatalf("short ids stay as they are, got %q", events[1].SessionID)
	}

	counts := trail.Counts()
	if counts["login"] != 1 || counts["logout"] != 1 || counts["invalidated"] != 1 {
		t.Fatalf("counts must include evicted events, got %v", counts)
	}
}

func TestTrailFilter(t *testing.T) {
	trail := New(0)
	for i := 0; i < 3; i++ {
		trail.Record(session.Event{Kind: session.EventLogin, SessionID: "s"})
	}
	trail.Record(session.Event{Kind: session.EventLogout, SessionID: "s"})

	if got := trail.List(Filter{Kind: "login", Limit: 2}); len(got) != 2 {
		t.Fatalf("expected 2 login events, got %d", len(got))
	}
	if got := trail.List(Filter{Kind: "logout"}); len(got) != 1 {
		t.Fatalf("expected 1 logout event, got %d", len(got))
	}
}
