package payrollhandler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/payroll"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

const Path = "/payroll"

type Handler struct {
	Payroll  *payroll.Service
	Policy   *auth.Policy
	Notices  middleware.Notifier
	Tracker  *fetch.Tracker
	InFlight *middleware.InFlight
	Web      *web.Renderer
	Now      func() time.Time
}

// Selection is the employee and month a payroll page is about.
type Selection struct {
	EmployeeID string
	Month      int
	Year       int
}

// Query renders the selection as the page's query string.
func (s Selection) Query() string {
	q := url.Values{}
	if s.EmployeeID != "" {
		q.Set("employeeId", s.EmployeeID)
	}
	q.Set("month", strconv.Itoa(s.Month))
	q.Set("year", strconv.Itoa(s.Year))
	return q.Encode()
}

func (s Selection) URL() string { return Path + "?" + s.Query() }

func (s Selection) EditURL() string { return s.URL() + "&edit=1" }

func (s Selection) DownloadURL() string { return Path + "/download?" + s.Query() }

type pageData struct {
	Selection  Selection
	Years      []int
	Record     *payroll.Record
	Deductions apiclient.Number
	Net        apiclient.Number
	DetailErr  string
	History    []Row
	Pager      web.Pager
	Empty      bool
	Editing    bool
	Fields     []fieldView
	Statuses   []string
}

// Row is a history line with the net recomputed from its own figures, so the
// table never shows a stored net that disagrees with gross and deductions.
type Row struct {
	payroll.Record
	Deductions apiclient.Number
	Net        apiclient.Number
}

func Rows(records []payroll.Record) []Row {
	out := make([]Row, 0, len(records))
	for _, rec := range records {
		out = append(out, Row{
			Record:     rec,
			Deductions: apiclient.NewNumber(payroll.Deductions(rec)),
			Net:        apiclient.NewNumber(payroll.ComputeNet(rec)),
		})
	}
	return out
}

type fieldView struct {
	Name  string
	Label string
	Value apiclient.Number
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	gate := func(pattern string) func(http.Handler) http.Handler {
		return middleware.RequireRole(h.Policy, h.Notices, pattern)
	}
	r.With(gate(auth.RoutePayroll)).Get(Path, h.handlePage)
	r.With(gate(auth.RoutePayroll)).Get(Path+"/download", h.handleDownload)
	r.Group(func(r chi.Router) {
		r.Use(gate(auth.RoutePayroll), gate(auth.ActionManagePayroll))
		r.Post(Path, h.handleCreate)
		r.Post(Path+"/{payrollID}", h.handleUpdate)
		r.With(h.InFlight.Guard("send-payslip", http.HandlerFunc(h.handleSendBusy))).Post(Path+"/send-payslip", h.handleSend)
	})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// selection resolves the employee from the query for staff and from the
// session for everyone else, and defaults the month to the current one.
func (h *Handler) selection(r *http.Request, values url.Values) Selection {
	st := middleware.GetSession(r.Context())
	month, year := shared.MonthYear(values.Get("month"), values.Get("year"), h.now())
	sel := Selection{EmployeeID: st.User.EmployeeID(), Month: month, Year: year}
	if id := strings.TrimSpace(values.Get("employeeId")); id != "" && h.Policy.Allows(st.Role, auth.ActionViewOtherEmployee) {
		sel.EmployeeID = id
	}
	return sel
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	sel := h.selection(r, r.URL.Query())
	p := shared.ParsePagination(r, apiclient.DefaultLimit, apiclient.DefaultLimit)
	staff := h.Policy.Allows(st.Role, auth.ActionManagePayroll)

	type result struct {
		record    *payroll.Record
		detailErr error
		history   apiclient.Page[payroll.Record]
	}
	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "payroll"), func(ctx context.Context) (result, error) {
		var res result
		errs := fetch.All(ctx,
			fetch.Task{Name: "detail", Run: func(ctx context.Context) error {
				rec, err := h.Payroll.GetByEmployee(ctx, sel.EmployeeID, sel.Month, sel.Year)
				if apiclient.StatusOf(err) == http.StatusNotFound {
					return nil
				}
				if err == nil && rec.ID != "" {
					res.record = &rec
				}
				return err
			}},
			fetch.Task{Name: "history", Run: func(ctx context.Context) (err error) {
				q := payroll.ListQuery{Page: p.Page, Limit: apiclient.DefaultLimit, Month: sel.Month, Year: sel.Year}
				if staff {
					res.history, err = h.Payroll.List(ctx, q)
				} else {
					res.history, err = h.Payroll.ListByEmployee(ctx, sel.EmployeeID, q)
				}
				return err
			}},
		)
		for _, err := range errs {
			if errors.Is(err, apiclient.ErrSessionInvalid) {
				return res, err
			}
		}
		res.detailErr = errs["detail"]
		return res, errs["history"]
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}

	data := pageData{
		Selection: sel,
		Years:     yearChoices(h.now().Year()),
		Record:    state.Data.record,
		Statuses:  payroll.Statuses,
	}
	view := web.View{Title: "Payroll"}
	if state.Data.detailErr != nil {
		data.DetailErr = h.Web.T(r, "load_failed_payroll")
	}
	if data.Record != nil {
		data.Deductions = apiclient.NewNumber(payroll.Deductions(*data.Record))
		data.Net = apiclient.NewNumber(payroll.ComputeNet(*data.Record))
		data.Editing = staff && r.URL.Query().Get("edit") == "1"
		if data.Editing {
			data.Fields = fieldsOf(*data.Record)
		} else {
			data.Fields = displayFields(*data.Record)
		}
	}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_payroll")
	} else {
		data.History = Rows(state.Data.history.Items)
		data.Empty = len(data.History) == 0
		data.Pager = web.NewPager(r, state.Data.history.Page, state.Data.history.TotalPages, state.Data.history.Total)
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "payroll", view)
}

func yearChoices(current int) []int {
	out := make([]int, 0, 6)
	for y := current + 1; y >= current-4; y-- {
		out = append(out, y)
	}
	return out
}

var fieldLabels = map[string]string{
	"grossEarnings":    "Gross earnings",
	"basic":            "Basic",
	"hra":              "HRA",
	"conveyance":       "Conveyance",
	"specialAllowance": "Special allowance",
	"pf":               "PF",
	"esi":              "ESI",
	"tds":              "TDS",
	"professionalTax":  "Professional tax",
	"otherDeductions":  "Other deductions",
	"lossOfPayDays":    "Loss of pay days",
	"leaveDeductions":  "Leave deductions",
	"netPayable":       "Net payable",
	"totalWorkedDays":  "Total worked days",
}

func fieldsOf(rec payroll.Record) []fieldView {
	values := map[string]apiclient.Number{
		"grossEarnings":    rec.GrossEarnings,
		"basic":            rec.Basic,
		"hra":              rec.HRA,
		"conveyance":       rec.Conveyance,
		"specialAllowance": rec.SpecialAllowance,
		"pf":               rec.PF,
		"esi":              rec.ESI,
		"tds":              rec.TDS,
		"professionalTax":  rec.ProfessionalTax,
		"otherDeductions":  rec.OtherDeductions,
		"lossOfPayDays":    rec.LossOfPayDays,
		"leaveDeductions":  rec.LeaveDeductions,
		"netPayable":       rec.NetPayable,
		"totalWorkedDays":  rec.TotalWorkedDays,
	}
	var in payroll.UpdateInput
	fields := in.NumericFields()
	out := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldView{Name: f.Name, Label: fieldLabels[f.Name], Value: values[f.Name]})
	}
	return out
}

// displayFields drops the stored net; the page shows the computed one.
func displayFields(rec payroll.Record) []fieldView {
	all := fieldsOf(rec)
	out := all[:0]
	for _, f := range all {
		if f.Name != "netPayable" {
			out = append(out, f)
		}
	}
	return out
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, Path, "payroll_create_failed", nil)
		return
	}
	sel := h.selection(r, r.PostForm)
	if strings.TrimSpace(r.PostFormValue("employeeId")) == "" {
		h.Web.Refuse(w, r, sel.URL(), "payroll_select_employee", nil)
		return
	}
	in := payroll.CreateInput{EmployeeID: sel.EmployeeID, Month: sel.Month, Year: sel.Year}
	v := shared.NewValidator()
	v.Struct(in)
	if v.HasIssues() {
		h.Web.Refuse(w, r, sel.URL(), "form_invalid", nil)
		return
	}
	if _, err := h.Payroll.Create(r.Context(), in); err != nil {
		h.Web.Failed(w, r, err, sel.URL(), "payroll_create_failed")
		return
	}
	h.Web.Done(w, r, sel.URL(), "payroll_created", nil)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, Path, "payroll_update_failed", nil)
		return
	}
	sel := h.selection(r, r.PostForm)
	in, err := UpdateFromForm(r.PostForm, sel.Month, sel.Year)
	if err != nil {
		h.Web.Refuse(w, r, sel.EditURL(), "form_invalid", nil)
		return
	}
	if _, err := h.Payroll.Update(r.Context(), chi.URLParam(r, "payrollID"), in); err != nil {
		h.Web.Failed(w, r, err, sel.EditURL(), "payroll_update_failed")
		return
	}
	h.Web.Done(w, r, sel.URL(), "payroll_updated", nil)
}

// UpdateFromForm reads the edit form. Blank amounts stay nil and are left
// untouched by the backend.
func UpdateFromForm(form url.Values, month, year int) (payroll.UpdateInput, error) {
	in := payroll.UpdateInput{
		Status: strings.TrimSpace(form.Get("status")),
		Month:  month,
		Year:   year,
	}
	for _, f := range in.NumericFields() {
		n, err := web.FormNumber(form.Get(f.Name))
		if err != nil {
			return payroll.UpdateInput{}, err
		}
		*f.Value = n
	}
	v := shared.NewValidator()
	v.Struct(in)
	if v.HasIssues() {
		return payroll.UpdateInput{}, errors.New("invalid payroll update")
	}
	return in, nil
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, Path, "payroll_send_failed", nil)
		return
	}
	sel := h.selection(r, r.PostForm)
	if _, err := h.Payroll.SendPayslip(r.Context(), sel.EmployeeID, sel.Month, sel.Year); err != nil {
		h.Web.Failed(w, r, err, sel.URL(), "payroll_send_failed")
		return
	}
	h.Web.Done(w, r, sel.URL(), "payroll_sent", map[string]any{"Month": sel.Month, "Year": sel.Year})
}

func (h *Handler) handleSendBusy(w http.ResponseWriter, r *http.Request) {
	h.Web.Refuse(w, r, Path, "payroll_send_failed", nil)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	sel := h.selection(r, r.URL.Query())
	file, err := h.Payroll.Download(r.Context(), sel.EmployeeID, sel.Month, sel.Year)
	if err != nil {
		h.Web.Failed(w, r, err, sel.URL(), "payroll_download_failed")
		return
	}
	web.SendFile(w, file.Name, file.ContentType, file.Data)
}
