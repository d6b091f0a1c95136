package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
)

const JobSessionSweep = "session_sweep"

type Service struct {
	Store         storage.Storage
	IdleTTL       time.Duration
	SweepInterval time.Duration
	queue         chan job

	mu   sync.Mutex
	runs map[string]Run
}

// Run is the outcome of the most recent execution of a job type.
type Run struct {
	Status      string    `json:"status"`
	Details     any       `json:"details,omitempty"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(store storage.Storage, idleTTL, sweepInterval time.Duration) *Service {
	return &Service{
		Store:         store,
		IdleTTL:       idleTTL,
		SweepInterval: sweepInterval,
		queue:         make(chan job, 16),
		runs:          map[string]Run{},
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.SweepInterval > 0 && s.IdleTTL > 0 {
		go s.scheduleSweeps(ctx, s.SweepInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// SweepSessions removes sessions idle for longer than IdleTTL.
func (s *Service) SweepSessions(ctx context.Context) (any, error) {
	cutoff := time.Now().Add(-s.IdleTTL)
	removed, err := s.Store.Sweep(ctx, cutoff)
	return map[string]any{"cutoff": cutoff, "removed": removed}, err
}

// LastRuns returns a copy of the latest run per job type.
func (s *Service) LastRuns() map[string]Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Run, len(s.runs))
	for k, v := range s.runs {
		out[k] = v
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	details, err := j.Run(ctx)
	run := Run{Status: "completed", Details: details, CompletedAt: time.Now().UTC()}
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	}
	s.mu.Lock()
	s.runs[j.Type] = run
	s.mu.Unlock()
	return details, err
}

func (s *Service) scheduleSweeps(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobSessionSweep, s.SweepSessions)
		}
	}
}
