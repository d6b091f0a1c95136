package notifications

import (
	"context"
	"testing"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
)

func TestPushAndDrain(t *testing.T) {
	svc := New(storage.NewMemory())
	ctx := context.Background()

	if got := svc.Drain(ctx, "sid"); len(got) != 0 {
		t.Fatalf("expected empty queue, got %v", got)
	}
	if err := svc.Push(ctx, "sid", AccessDenied("/employees")); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := svc.Push(ctx, "sid", Success("leave_applied", nil)); err != nil {
		t.Fatalf("push: %v", err)
	}

	got := svc.Drain(ctx, "sid")
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0].Type != TypeAccessDenied || got[0].From != "/employees" || got[0].Data["Path"] != "/employees" {
		t.Fatalf("unexpected first notice: %+v", got[0])
	}
	if got[1].Level != LevelSuccess || got[1].MessageID != "leave_applied" {
		t.Fatalf("unexpected second notice: %+v", got[1])
	}
	if again := svc.Drain(ctx, "sid"); len(again) != 0 {
		t.Fatalf("expected notices consumed, got %v", again)
	}
}

func TestQueueIsBounded(t *testing.T) {
	svc := New(storage.NewMemory())
	ctx := context.Background()
	for i := 0; i < maxQueued+5; i++ {
		_ = svc.Push(ctx, "sid", Failure("upload_failed", ""))
	}
	if got := svc.Drain(ctx, "sid"); len(got) != maxQueued {
		t.Fatalf("expected %d notices, got %d", maxQueued, len(got))
	}
}

func TestPushWithoutSessionIsNoop(t *testing.T) {
	svc := New(storage.NewMemory())
	if err := svc.Push(context.Background(), "", Success("x", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDrainClearsUnreadableQueue(t *testing.T) {
	store := storage.NewMemory()
	svc := New(store)
	ctx := context.Background()
	if err := store.Set(ctx, "sid", storage.KeyFlash, "{not json"); err != nil {
		t.Fatalf("seed flash: %v", err)
	}
	if got := svc.Drain(ctx, "sid"); len(got) != 0 {
		t.Fatalf("expected no notices, got %v", got)
	}
	if _, err := store.Get(ctx, "sid", storage.KeyFlash); err == nil {
		t.Fatal("unreadable queue must be cleared")
	}
	if err := svc.Push(ctx, "sid", Success("profile_saved", nil)); err != nil {
		t.Fatalf("push after clear: %v", err)
	}
	if got := svc.Drain(ctx, "sid"); len(got) != 1 {
		t.Fatalf("expected the new notice, got %v", got)
	}
}
