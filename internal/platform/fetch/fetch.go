// Package fetch holds the load lifecycle shared by every list page: one
// in-flight fetch per (session, page), with superseded results discarded.
package fetch

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Lener is implemented by list results so that empty successes can be detected.
type Lener interface {
	Len() int
}

type State[T any] struct {
	Status Status
	Data   T
	Err    error
	Count  int
}

func (s State[T]) Empty() bool {
	return s.Status == StatusSuccess && s.Count == 0
}

func (s State[T]) Failed() bool {
	return s.Status == StatusError
}

type entry struct {
	gen    uint64
	cancel context.CancelFunc
}

type Tracker struct {
	mu       sync.Mutex
	next     uint64
	inflight map[string]entry
}

func NewTracker() *Tracker {
	return &Tracker{inflight: map[string]entry{}}
}

func Key(sessionID, page string) string {
	return sessionID + "|" + page
}

// begin cancels any fetch running under key and registers a new one.
func (t *Tracker) begin(parent context.Context, key string) (context.Context, uint64) {
	ctx, cancel := context.WithCancelCause(parent)
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.inflight[key]; ok {
		prev.cancel()
	}
	t.next++
	gen := t.next
	t.inflight[key] = entry{gen: gen, cancel: func() { cancel(ErrSuperseded) }}
	return ctx, gen
}

// end reports whether gen was still the current fetch for key.
func (t *Tracker) end(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.inflight[key]
	if !ok || cur.gen != gen {
		return false
	}
	delete(t.inflight, key)
	cur.cancel()
	return true
}

// InFlight reports the number of fetches currently registered.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// Run executes fn as the current fetch for key. If another Run for the same
// key starts before fn returns, fn's context is cancelled and its result is
// replaced by ErrSuperseded.
func Run[T any](ctx context.Context, t *Tracker, key string, fn func(context.Context) (T, error)) State[T] {
	fetchCtx, gen := t.begin(ctx, key)
	data, err := fn(fetchCtx)
	if !t.end(key, gen) {
		var zero T
		return State[T]{Status: StatusError, Data: zero, Err: ErrSuperseded}
	}
	if err != nil {
		var zero T
		return State[T]{Status: StatusError, Data: zero, Err: err}
	}
	st := State[T]{Status: StatusSuccess, Data: data, Count: 1}
	if l, ok := any(data).(Lener); ok {
		st.Count = l.Len()
	}
	return st
}

// Task is one independent fetch for All.
type Task struct {
	Name string
	Run  func(context.Context) error
}

// All runs independent fetches concurrently. One failing task does not
// cancel the others; each error is reported under its task name.
func All(ctx context.Context, tasks ...Task) map[string]error {
	errs := make(map[string]error, len(tasks))
	var mu sync.Mutex
	var g errgroup.Group
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			err := task.Run(ctx)
			mu.Lock()
			errs[task.Name] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
