package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector counts portal requests and the backend calls made on their behalf.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	backendCalls       uint64
	backendFailures    uint64
	sessionInvalidated uint64
	backendDurationMs  uint64

	mu         sync.Mutex
	byResource map[string]uint64
}

func New() *Collector {
	return &Collector{byResource: map[string]uint64{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordBackend tracks one outbound call. status is 0 when the transport failed.
func (c *Collector) RecordBackend(resource string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.backendCalls, 1)
	if status == 0 || status >= 400 {
		atomic.AddUint64(&c.backendFailures, 1)
	}
	atomic.AddUint64(&c.backendDurationMs, uint64(duration.Milliseconds()))
	if resource == "" {
		return
	}
	c.mu.Lock()
	c.byResource[resource]++
	c.mu.Unlock()
}

func (c *Collector) RecordInvalidation() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.sessionInvalidated, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	calls := atomic.LoadUint64(&c.backendCalls)
	backendMs := atomic.LoadUint64(&c.backendDurationMs)
	backendAvg := float64(0)
	if calls > 0 {
		backendAvg = float64(backendMs) / float64(calls)
	}

	c.mu.Lock()
	resources := make(map[string]uint64, len(c.byResource))
	for k, v := range c.byResource {
		resources[k] = v
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":           total,
		"errorsTotal":             errs,
		"rateLimitedTotal":        limited,
		"avgDurationMs":           avg,
		"totalDurationMs":         totalMs,
		"backendCallsTotal":       calls,
		"backendFailuresTotal":    atomic.LoadUint64(&c.backendFailures),
		"backendAvgDurationMs":    backendAvg,
		"sessionInvalidatedTotal": atomic.LoadUint64(&c.sessionInvalidated),
		"backendCallsByResource":  resources,
	}
}
