package attendancehandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/attendance"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/export"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

const (
	pageLimit = apiclient.DefaultLimit
	// exportLimit bounds the rows pulled for a local export of the current filters.
	exportLimit = 1000
)

type Handler struct {
	Attendance *attendance.Service
	Employees  *employee.Service
	Policy     *auth.Policy
	Notices    middleware.Notifier
	Tracker    *fetch.Tracker
	Web        *web.Renderer
	Now        func() time.Time
}

// Filters is the attendance list filter bar.
type Filters struct {
	Status     string
	StartDate  string
	EndDate    string
	Search     string
	EmployeeID string
}

type listData struct {
	Filters  Filters
	Statuses []string
	Records  []attendance.Record
	Pager    web.Pager
	Empty    bool
	Exports  exportLinks
}

type exportLinks struct {
	XLSX   string
	PDF    string
	Report string
}

func exportsFor(r *http.Request) exportLinks {
	q := r.URL.Query()
	q.Del("page")
	q.Set("format", "xlsx")
	xlsx := "/attendance/export?" + q.Encode()
	q.Set("format", "pdf")
	pdf := "/attendance/export?" + q.Encode()
	q.Del("format")
	return exportLinks{XLSX: xlsx, PDF: pdf, Report: "/attendance/report?" + q.Encode()}
}

type employeeData struct {
	EmployeeID string
	Employee   employee.Employee
	Filters    Filters
	Statuses   []string
	Records    []attendance.Record
	Pager      web.Pager
	Empty      bool
	CanEdit    bool
	EditID     string
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(h.Policy, h.Notices, auth.RouteAttendance))
		r.Get("/attendance", h.handleList)
		r.Get("/attendance/export", h.handleExport)
		r.Get("/attendance/report", h.handleReport)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(h.Policy, h.Notices, auth.RouteEmployeeAttendance))
		r.Get("/attendance/employee/{employeeID}", h.handleEmployee)
		r.With(middleware.RequireRole(h.Policy, h.Notices, auth.ActionEditAttendance)).
			Post("/attendance/employee/{employeeID}/{attendanceID}", h.handleUpdate)
	})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// filters reads the filter bar. The date range defaults to the current month
// and employees only ever see their own records.
func (h *Handler) filters(r *http.Request) Filters {
	q := r.URL.Query()
	start, end := attendance.MonthRange(h.now())
	f := Filters{
		Status:     strings.TrimSpace(q.Get("status")),
		StartDate:  strings.TrimSpace(q.Get("startDate")),
		EndDate:    strings.TrimSpace(q.Get("endDate")),
		Search:     strings.TrimSpace(q.Get("search")),
		EmployeeID: strings.TrimSpace(q.Get("employeeId")),
	}
	if f.Status == "all" || !attendance.IsKnownStatus(f.Status) {
		f.Status = ""
	}
	if _, err := shared.ParseDate(f.StartDate); err != nil || f.StartDate == "" {
		f.StartDate = start
	}
	if _, err := shared.ParseDate(f.EndDate); err != nil || f.EndDate == "" {
		f.EndDate = end
	}
	st := middleware.GetSession(r.Context())
	if !h.Policy.Allows(st.Role, auth.ActionViewOtherEmployee) {
		f.EmployeeID = st.User.EmployeeID()
	}
	return f
}

func (f Filters) params(page, limit int) attendance.ListParams {
	return attendance.ListParams{
		Page:       page,
		Limit:      limit,
		Status:     f.Status,
		EmployeeID: f.EmployeeID,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Search:     f.Search,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	f := h.filters(r)
	p := shared.ParsePagination(r, pageLimit, pageLimit)

	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "attendance"), func(ctx context.Context) (apiclient.Page[attendance.Record], error) {
		return h.Attendance.List(ctx, f.params(p.Page, pageLimit))
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}

	view := web.View{Title: "Attendance"}
	data := listData{Filters: f, Statuses: attendance.Statuses, Exports: exportsFor(r)}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_attendance")
	} else {
		data.Records = state.Data.Items
		data.Empty = state.Empty()
		data.Pager = web.NewPager(r, state.Data.Page, state.Data.TotalPages, state.Data.Total)
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "attendance", view)
}

// handleExport renders the current filters as a local XLSX or PDF file.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	f := h.filters(r)
	page, err := h.Attendance.List(r.Context(), f.params(1, exportLimit))
	if err != nil {
		h.Web.Failed(w, r, err, "/attendance", "attendance_export_failed")
		return
	}
	table := Table(page.Items, f)

	var (
		data        []byte
		name        string
		contentType string
	)
	switch r.URL.Query().Get("format") {
	case "pdf":
		data, err = export.TablePDF(table)
		name, contentType = "attendance-report.pdf", export.ContentTypePDF
	default:
		data, err = export.XLSX(table)
		name, contentType = "attendance-report.xlsx", export.ContentTypeXLSX
	}
	if err != nil {
		h.Web.Refuse(w, r, "/attendance", "attendance_export_failed", nil)
		return
	}
	web.SendFile(w, name, contentType, data)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	f := h.filters(r)
	file, err := h.Attendance.DownloadReport(r.Context(), f.params(0, 0))
	if err != nil {
		h.Web.Failed(w, r, err, "/attendance", "attendance_export_failed")
		return
	}
	web.SendFile(w, file.Name, file.ContentType, file.Data)
}

// Table lays out records the way the attendance list shows them.
func Table(records []attendance.Record, f Filters) export.Table {
	t := export.Table{
		Title:    "Attendance Report",
		Subtitle: fmt.Sprintf("%s to %s", f.StartDate, f.EndDate),
		Headers:  []string{"Employee", "Code", "Date", "Clock In", "Clock Out", "Hours", "Status"},
	}
	for _, rec := range records {
		owner := rec.Owner()
		t.Rows = append(t.Rows, []string{
			owner.DisplayName(),
			owner.EmployeeCode,
			formatDate(rec.Date),
			formatClock(rec.ClockIn),
			formatClock(rec.ClockOut),
			rec.TotalWorkingHours.StringFixed(2),
			rec.Status,
		})
	}
	return t
}

func formatDate(t apiclient.Time) string {
	if !t.Set() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

func formatClock(t apiclient.Time) string {
	if !t.Set() {
		return "-"
	}
	return t.Local().Format("03:04 PM")
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	f := h.filters(r)
	f.EmployeeID = employeeID
	p := shared.ParsePagination(r, pageLimit, pageLimit)

	type result struct {
		page    apiclient.Page[attendance.Record]
		profile employee.Employee
		listErr error
	}
	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "attendance-employee"), func(ctx context.Context) (result, error) {
		var res result
		errs := fetch.All(ctx,
			fetch.Task{Name: "list", Run: func(ctx context.Context) (err error) {
				res.page, err = h.Attendance.ListByEmployee(ctx, employeeID, attendance.ListParams{
					Page:      p.Page,
					Limit:     pageLimit,
					Status:    f.Status,
					StartDate: f.StartDate,
					EndDate:   f.EndDate,
				})
				return err
			}},
			fetch.Task{Name: "profile", Run: func(ctx context.Context) (err error) {
				res.profile, err = h.Employees.Get(ctx, employeeID)
				return err
			}},
		)
		if errors.Is(errs["list"], apiclient.ErrSessionInvalid) || errors.Is(errs["profile"], apiclient.ErrSessionInvalid) {
			return res, apiclient.ErrSessionInvalid
		}
		res.listErr = errs["list"]
		return res, nil
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}

	view := web.View{Title: "Employee attendance"}
	data := employeeData{
		EmployeeID: employeeID,
		Employee:   state.Data.profile,
		Filters:    f,
		Statuses:   attendance.Statuses,
		CanEdit:    h.Policy.Allows(st.Role, auth.ActionEditAttendance),
		EditID:     r.URL.Query().Get("edit"),
	}
	if state.Failed() || state.Data.listErr != nil {
		view.Error = h.Web.T(r, "load_failed_attendance")
	} else {
		pg := state.Data.page
		data.Records = pg.Items
		data.Empty = len(pg.Items) == 0
		data.Pager = web.NewPager(r, pg.Page, pg.TotalPages, pg.Total)
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "attendance_employee", view)
}

// handleUpdate regularizes one record. The form carries a date and two
// HH:MM times, combined into timestamps in the portal's time zone.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	attendanceID := chi.URLParam(r, "attendanceID")
	back := "/attendance/employee/" + employeeID

	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, back, "attendance_update_failed", nil)
		return
	}
	in, err := UpdateFromForm(r.PostFormValue("date"), r.PostFormValue("clockIn"), r.PostFormValue("clockOut"), time.Local)
	if err != nil {
		h.Web.Refuse(w, r, back, "form_invalid", nil)
		return
	}
	v := shared.NewValidator()
	v.Struct(in)
	if v.HasIssues() {
		h.Web.Refuse(w, r, back, "form_invalid", nil)
		return
	}
	if _, err := h.Attendance.Update(r.Context(), employeeID, attendanceID, in); err != nil {
		h.Web.Failed(w, r, err, back, "attendance_update_failed")
		return
	}
	h.Web.Done(w, r, back, "attendance_updated", nil)
}

var errClockOrder = errors.New("clock-out must be after clock-in")

// UpdateFromForm builds a regularization from a yyyy-mm-dd date and HH:MM times.
func UpdateFromForm(date, clockIn, clockOut string, loc *time.Location) (attendance.UpdateInput, error) {
	day, err := time.ParseInLocation(shared.DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return attendance.UpdateInput{}, fmt.Errorf("date: %w", err)
	}
	in, err := atTime(day, clockIn, loc)
	if err != nil {
		return attendance.UpdateInput{}, fmt.Errorf("clock-in: %w", err)
	}
	out, err := atTime(day, clockOut, loc)
	if err != nil {
		return attendance.UpdateInput{}, fmt.Errorf("clock-out: %w", err)
	}
	if !out.After(in) {
		return attendance.UpdateInput{}, errClockOrder
	}
	return attendance.UpdateInput{
		ClockIn:  in.UTC().Format(time.RFC3339),
		ClockOut: out.UTC().Format(time.RFC3339),
		Date:     day.Format(shared.DateLayout),
	}, nil
}

func atTime(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", strings.TrimSpace(hhmm), loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
