package metrics

import (
	"testing"
	"time"
)

func TestSnapshotCountsRequestsAndBackendCalls(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(503, 30*time.Millisecond)
	c.Record(429, 0)
	c.RecordBackend("attendance", 200, 5*time.Millisecond)
	c.RecordBackend("attendance", 401, 5*time.Millisecond)
	c.RecordBackend("leaves", 0, 0)
	c.RecordInvalidation()

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("expected 3 requests, got %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 error, got %v", snap["errorsTotal"])
	}
	if snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 rate limited, got %v", snap["rateLimitedTotal"])
	}
	if snap["backendCallsTotal"].(uint64) != 3 {
		t.Fatalf("expected 3 backend calls, got %v", snap["backendCallsTotal"])
	}
	if snap["backendFailuresTotal"].(uint64) != 2 {
		t.Fatalf("expected 2 backend failures, got %v", snap["backendFailuresTotal"])
	}
	if snap["sessionInvalidatedTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 invalidation, got %v", snap["sessionInvalidatedTotal"])
	}
	byResource := snap["backendCallsByResource"].(map[string]uint64)
	if byResource["attendance"] != 2 || byResource["leaves"] != 1 {
		t.Fatalf("unexpected per-resource counts: %v", byResource)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(200, time.Millisecond)
	c.RecordBackend("x", 200, time.Millisecond)
	c.RecordInvalidation()
}
