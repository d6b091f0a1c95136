package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/attendance"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/audit"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/dashboard"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/leave"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/notifications"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/payroll"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/salary"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/upload"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/config"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/geo"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/i18n"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/jobs"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/metrics"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/requestctx"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/api"
	attendancehandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/attendance"
	authhandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/auth"
	dashboardhandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/dashboard"
	employeeshandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/employees"
	leavehandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/leave"
	payrollhandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/payroll"
	salaryhandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/salary"
	settingshandler "github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/handlers/settings"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

type App struct {
	Config   config.Config
	Router   http.Handler
	Store    storage.Storage
	Sessions *session.Service
	Jobs     *jobs.Service
	Metrics  *metrics.Collector
	Audit    *audit.Trail

	stop        context.CancelFunc
	unsubscribe func()
}

// Option overrides a collaborator built by New.
type Option func(*options)

type options struct {
	store      storage.Storage
	httpClient *http.Client
}

// WithStorage makes New use store instead of opening cfg.SessionStore.
func WithStorage(store storage.Storage) Option {
	return func(o *options) { o.store = store }
}

// WithHTTPClient sets the client used for backend calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New wires the portal: session storage, the backend client, the domain
// services and every page handler behind one router.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		opened, err := storage.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open session storage: %w", err)
		}
		store = opened
	}

	tr, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("load translations: %w", err)
	}

	collector := metrics.New()
	if !cfg.MetricsEnabled {
		collector = nil
	}
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.BackendTimeout}
	}
	client := apiclient.New(cfg.BackendURL,
		apiclient.WithHTTPClient(hc),
		apiclient.WithMetrics(collector),
		apiclient.WithLogger(slog.Default()),
	)

	authSvc := auth.NewService(client)
	sessions := session.NewService(store, authSvc)
	client.OnInvalidate(func(ctx context.Context) {
		sessions.Invalidate(ctx, requestctx.GetSessionID(ctx))
	})
	trail := audit.New(audit.DefaultCapacity)
	unsubscribe := sessions.Subscribe(trail.Record)

	policy := auth.DefaultPolicy()
	notices := notifications.New(store)
	renderer, err := web.NewRenderer(tr, policy, notices)
	if err != nil {
		unsubscribe()
		_ = store.Close(ctx)
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	jobCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	jobSvc := jobs.New(store, cfg.SessionIdleTTL, cfg.SessionSweepInterval)
	if cfg.SessionIdleTTL > 0 {
		// sessions left idle while the portal was down go before the first request
		if _, err := jobSvc.RunNow(ctx, jobs.JobSessionSweep, jobSvc.SweepSessions); err != nil {
			slog.Warn("startup session sweep failed", "err", err)
		}
	}
	jobSvc.Start(jobCtx)

	app := &App{
		Config:      cfg,
		Store:       store,
		Sessions:    sessions,
		Jobs:        jobSvc,
		Metrics:     collector,
		Audit:       trail,
		stop:        stop,
		unsubscribe: unsubscribe,
	}

	tracker := fetch.NewTracker()
	inflight := middleware.NewInFlight()
	resolver := geo.NewResolver(cfg.GeoFallbackLat, cfg.GeoFallbackLng)
	attendanceSvc := attendance.NewService(client)
	employeeSvc := employee.NewService(client)
	uploadSvc := upload.NewService(client, cfg.ProfileImageMaxPx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, api.Probe{Status: "ok"}, middleware.GetRequestID(r.Context()))
	})
	router.Get("/readyz", app.handleReady)
	router.Get("/metrics", app.handleMetrics)
	router.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessions, store, tr, middleware.SessionOptions{
			CookieName: cfg.SessionCookie,
			Secure:     cfg.IsProduction(),
			IdleTTL:    cfg.SessionIdleTTL,
		}))

		authHandler := authhandler.NewHandler(sessions, renderer)
		loginLimit := middleware.LoginRateLimit(cfg.LoginRateLimitPerMinute, time.Minute, http.HandlerFunc(authHandler.HandleRateLimited))
		authHandler.RegisterRoutes(r, loginLimit)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			dashboardHandler := &dashboardhandler.Handler{
				Dashboard:  dashboard.NewService(client),
				Attendance: attendanceSvc,
				Employees:  employeeSvc,
				Uploads:    uploadSvc,
				Policy:     policy,
				Notices:    notices,
				Tracker:    tracker,
				InFlight:   inflight,
				Geo:        resolver,
				Web:        renderer,
			}
			dashboardHandler.RegisterRoutes(r)

			attendanceHandler := &attendancehandler.Handler{
				Attendance: attendanceSvc,
				Employees:  employeeSvc,
				Policy:     policy,
				Notices:    notices,
				Tracker:    tracker,
				Web:        renderer,
			}
			attendanceHandler.RegisterRoutes(r)

			leaveHandler := &leavehandler.Handler{
				Leaves:   leave.NewService(client),
				Uploads:  uploadSvc,
				Policy:   policy,
				Notices:  notices,
				Tracker:  tracker,
				InFlight: inflight,
				Web:      renderer,
			}
			leaveHandler.RegisterRoutes(r)

			payrollHandler := &payrollhandler.Handler{
				Payroll:  payroll.NewService(client),
				Policy:   policy,
				Notices:  notices,
				Tracker:  tracker,
				InFlight: inflight,
				Web:      renderer,
			}
			payrollHandler.RegisterRoutes(r)

			salaryHandler := &salaryhandler.Handler{
				Salary:  salary.NewService(client),
				Policy:  policy,
				Notices: notices,
				Tracker: tracker,
				Web:     renderer,
			}
			salaryHandler.RegisterRoutes(r)

			settingsHandler := &settingshandler.Handler{
				Employees: employeeSvc,
				Uploads:   uploadSvc,
				Sessions:  sessions,
				Web:       renderer,
			}
			settingsHandler.RegisterRoutes(r)

			employeesHandler := &employeeshandler.Handler{
				Employees: employeeSvc,
				Policy:    policy,
				Notices:   notices,
				Tracker:   tracker,
				Web:       renderer,
			}
			employeesHandler.RegisterRoutes(r)
		})

		r.NotFound(renderer.NotFound)
	})

	app.Router = router
	return app, nil
}

// readyProbeKey is looked up to prove the session store answers.
const readyProbeKey = "readyz"

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	_, err := a.Store.Get(ctx, readyProbeKey, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		err = nil
	}
	api.Checked(w, map[string]error{"sessionStore": err}, middleware.GetRequestID(r.Context()))
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if a.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics are disabled", requestID)
		return
	}
	snapshot := a.Metrics.Snapshot()
	snapshot["jobs"] = a.Jobs.LastRuns()
	snapshot["sessionEvents"] = a.Audit.Counts()
	api.Success(w, snapshot, requestID)
}

// Close stops background jobs and releases the session store.
func (a *App) Close() {
	a.stop()
	a.unsubscribe()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Store.Close(ctx); err != nil {
		slog.Warn("session storage close failed", "err", err)
	}
}

// Run loads the configuration, serves the portal and shuts down gracefully
// on SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("portal startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      2 * cfg.BackendTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HRMS portal listening", "addr", cfg.Addr, "backend", cfg.BackendURL, "sessionStore", cfg.SessionStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
		}
	}
}

func logLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
