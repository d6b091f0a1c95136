package dashboardhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/attendance"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/dashboard"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/upload"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/geo"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

const (
	actionClockIn  = "clock-in"
	actionClockOut = "clock-out"
)

type Handler struct {
	Dashboard  *dashboard.Service
	Attendance *attendance.Service
	Employees  *employee.Service
	Uploads    *upload.Service
	Policy     *auth.Policy
	Notices    middleware.Notifier
	Tracker    *fetch.Tracker
	InFlight   *middleware.InFlight
	Geo        geo.Resolver
	Web        *web.Renderer
}

type pageData struct {
	Summary     dashboard.Employee
	SummaryErr  string
	Stats       []dashboard.Stat
	StatsErr    string
	ShowStats   bool
	Calendar    *dashboard.Calendar
	CalendarErr string
	Profile     employee.Employee
	ProfileErr  string
	Today       *attendance.Record
	TodayErr    string
	Clock       attendance.ClockState
	Fallback    geo.Point
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)

	busy := http.HandlerFunc(h.handleClockBusy)
	r.With(h.InFlight.Guard(actionClockIn, busy)).Post("/dashboard/clock-in", h.handleClockIn)
	r.With(h.InFlight.Guard(actionClockOut, busy)).Post("/dashboard/clock-out", h.handleClockOut)
	r.With(middleware.RequireRole(h.Policy, h.Notices, auth.ActionUploadCalendar)).Post("/dashboard/calendar", h.handleCalendarUpload)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	employeeID := st.User.EmployeeID()
	orgID := st.User.OrganizationID.String()
	showStats := st.Role != auth.RoleEmployee

	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "dashboard"), func(ctx context.Context) (pageData, error) {
		data := pageData{ShowStats: showStats, Fallback: h.Geo.Fallback}
		tasks := []fetch.Task{
			{Name: "summary", Run: func(ctx context.Context) (err error) {
				data.Summary, err = h.Dashboard.ForEmployee(ctx, employeeID)
				return err
			}},
			{Name: "calendar", Run: func(ctx context.Context) (err error) {
				data.Calendar, err = h.Dashboard.HolidayCalendar(ctx, orgID)
				return err
			}},
			{Name: "profile", Run: func(ctx context.Context) (err error) {
				data.Profile, err = h.Employees.Get(ctx, employeeID)
				return err
			}},
			{Name: "today", Run: func(ctx context.Context) (err error) {
				data.Today, err = h.Attendance.Today(ctx, employeeID)
				return err
			}},
		}
		if showStats {
			tasks = append(tasks, fetch.Task{Name: "stats", Run: func(ctx context.Context) error {
				stats, err := h.Dashboard.Stats(ctx)
				data.Stats = stats.Entries()
				return err
			}})
		}
		errs := fetch.All(ctx, tasks...)
		for _, err := range errs {
			if errors.Is(err, apiclient.ErrSessionInvalid) {
				return data, err
			}
		}
		data.SummaryErr = h.loadError(r, errs["summary"], "load_failed_dashboard")
		data.CalendarErr = h.loadError(r, errs["calendar"], "load_failed_calendar")
		data.ProfileErr = h.loadError(r, errs["profile"], "load_failed_profile")
		data.TodayErr = h.loadError(r, errs["today"], "load_failed_attendance")
		data.StatsErr = h.loadError(r, errs["stats"], "load_failed_dashboard")
		data.Clock = attendance.ClockStateOf(data.Today)
		if data.TodayErr != "" {
			data.Clock = attendance.ClockState{}
		}
		return data, nil
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}
	data := state.Data
	data.Clock = PendingClock(h.InFlight, st.SessionID, data.Clock)
	h.Web.Render(w, r, http.StatusOK, "dashboard", web.View{Title: "Dashboard", Data: data})
}

// PendingClock closes the button of a clock action this session still has
// in flight, so a reload during a slow submit cannot offer it twice.
func PendingClock(guard *middleware.InFlight, sessionID string, c attendance.ClockState) attendance.ClockState {
	if guard == nil {
		return c
	}
	if guard.Busy(sessionID, actionClockIn) {
		c.CanClockIn = false
	}
	if guard.Busy(sessionID, actionClockOut) {
		c.CanClockOut = false
	}
	return c
}

func (h *Handler) loadError(r *http.Request, err error, messageID string) string {
	if err == nil {
		return ""
	}
	return h.Web.T(r, messageID)
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, actionClockIn)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, actionClockOut)
}

func (h *Handler) clock(w http.ResponseWriter, r *http.Request, action string) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, middleware.DashboardPath, "clock_failed", nil)
		return
	}
	employeeID := middleware.GetSession(r.Context()).User.EmployeeID()
	point, precise := h.Geo.Resolve(r.PostFormValue("latitude"), r.PostFormValue("longitude"))
	if !precise {
		slog.Info("clock action using fallback position", "action", action, "requestId", middleware.GetRequestID(r.Context()))
	}

	today, err := h.Attendance.Today(r.Context(), employeeID)
	if err != nil {
		h.Web.Failed(w, r, err, middleware.DashboardPath, "clock_failed")
		return
	}
	state := attendance.ClockStateOf(today)

	switch action {
	case actionClockIn:
		if !state.CanClockIn {
			h.Web.Refuse(w, r, middleware.DashboardPath, "clock_not_allowed", nil)
			return
		}
		_, err = h.Attendance.ClockIn(r.Context(), employeeID, point, attendance.MarkedByUser)
	case actionClockOut:
		if !state.CanClockOut {
			h.Web.Refuse(w, r, middleware.DashboardPath, "clock_not_allowed", nil)
			return
		}
		_, err = h.Attendance.ClockOut(r.Context(), employeeID, point)
	}
	if err != nil {
		h.Web.Failed(w, r, err, middleware.DashboardPath, "clock_failed")
		return
	}
	done := "clock_in_done"
	if action == actionClockOut {
		done = "clock_out_done"
	}
	h.Web.Done(w, r, middleware.DashboardPath, done, nil)
}

func (h *Handler) handleClockBusy(w http.ResponseWriter, r *http.Request) {
	h.Web.Refuse(w, r, middleware.DashboardPath, "clock_busy", nil)
}

// handleCalendarUpload stores the image first and only then points the
// organization's calendar at it.
func (h *Handler) handleCalendarUpload(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	file, err := web.FormFile(r, "calendar")
	if err != nil {
		h.Web.Refuse(w, r, middleware.DashboardPath, "upload_failed", nil)
		return
	}
	url, err := h.Uploads.UploadImage(r.Context(), file.Name, file.ContentType, file.Data)
	if err != nil {
		h.Web.Failed(w, r, err, middleware.DashboardPath, "upload_failed")
		return
	}
	if _, err := h.Dashboard.SaveHolidayCalendar(r.Context(), st.User.OrganizationID.String(), url); err != nil {
		h.Web.Failed(w, r, err, middleware.DashboardPath, "calendar_save_failed")
		return
	}
	h.Web.Done(w, r, middleware.DashboardPath, "calendar_saved", nil)
}
