package salaryhandler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/salary"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/export"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

const Path = "/salary-slips"

var errInvalid = errors.New("invalid salary structure")

type Handler struct {
	Salary  *salary.Service
	Policy  *auth.Policy
	Notices middleware.Notifier
	Tracker *fetch.Tracker
	Web     *web.Renderer
}

// Line is one labelled amount of the structure card.
type Line struct {
	Name  string
	Label string
	Value apiclient.Number
}

type pageData struct {
	EmployeeID string
	Structure  salary.Structure
	Earnings   []Line
	Deductions []Line
	Total      apiclient.Number
	Net        apiclient.Number
	Editing    bool
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	gate := func(pattern string) func(http.Handler) http.Handler {
		return middleware.RequireRole(h.Policy, h.Notices, pattern)
	}
	r.With(gate(auth.RouteSalarySlips)).Get(Path, h.handlePage)
	r.With(gate(auth.RouteSalarySlips)).Get(Path+"/export", h.handleExport)
	r.Group(func(r chi.Router) {
		r.Use(gate(auth.RouteSalarySlips), gate(auth.ActionManageSalary))
		r.Post(Path, h.handleCreate)
		r.Post(Path+"/{structureID}", h.handleUpdate)
		r.Post(Path+"/{structureID}/delete", h.handleDelete)
	})
}

func (h *Handler) employeeID(r *http.Request, values url.Values) string {
	st := middleware.GetSession(r.Context())
	if id := strings.TrimSpace(values.Get("employeeId")); id != "" && h.Policy.Allows(st.Role, auth.ActionViewOtherEmployee) {
		return id
	}
	return st.User.EmployeeID()
}

func pageURL(employeeID string) string {
	return Path + "?" + url.Values{"employeeId": {employeeID}}.Encode()
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	employeeID := h.employeeID(r, r.URL.Query())
	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "salary"), func(ctx context.Context) (salary.Structure, error) {
		return h.Salary.GetByEmployee(ctx, employeeID)
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}
	view := web.View{Title: "Salary structure"}
	data := pageData{EmployeeID: employeeID}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_salary")
	} else {
		data.Structure = state.Data
		data.Earnings, data.Deductions = Lines(state.Data)
		data.Total = apiclient.NewNumber(salary.Deductions(state.Data))
		data.Net = apiclient.NewNumber(salary.NetPay(state.Data))
		data.Editing = !state.Data.Empty() && r.URL.Query().Get("edit") == "1" && h.Policy.Allows(st.Role, auth.ActionManageSalary)
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "salary", view)
}

// Lines splits a structure into its earnings and deductions, in card order.
func Lines(s salary.Structure) (earnings, deductions []Line) {
	earnings = []Line{
		{"ctc", "CTC", s.CTC},
		{"basic", "Basic", s.Basic},
		{"hra", "HRA", s.HRA},
		{"conveyance", "Conveyance", s.Conveyance},
		{"specialAllowance", "Special allowance", s.SpecialAllowance},
		{"gross", "Gross", s.Gross},
	}
	deductions = []Line{
		{"pf", "PF", s.PF},
		{"esi", "ESI", s.ESI},
		{"tds", "TDS", s.TDS},
		{"professionalTax", "Professional tax", s.ProfessionalTax},
		{"otherDeductions", "Other deductions", s.OtherDeductions},
	}
	return earnings, deductions
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, Path, "salary_create_failed", nil)
		return
	}
	employeeID := h.employeeID(r, r.PostForm)
	in, err := ComponentsFromForm(employeeID, r.PostForm)
	if err != nil {
		h.Web.Refuse(w, r, pageURL(employeeID), "form_invalid", nil)
		return
	}
	if _, err := h.Salary.Create(r.Context(), in); err != nil {
		h.Web.Failed(w, r, err, pageURL(employeeID), "salary_create_failed")
		return
	}
	h.Web.Done(w, r, pageURL(employeeID), "salary_created", nil)
}

// ComponentsFromForm reads the create form. Blank amounts are zero and a
// blank gross is proposed from the other components.
func ComponentsFromForm(employeeID string, form url.Values) (salary.Components, error) {
	in := salary.Components{EmployeeID: employeeID}
	targets := map[string]*apiclient.Number{
		"ctc":              &in.CTC,
		"basic":            &in.Basic,
		"gross":            &in.Gross,
		"hra":              &in.HRA,
		"conveyance":       &in.Conveyance,
		"specialAllowance": &in.SpecialAllowance,
		"pf":               &in.PF,
		"esi":              &in.ESI,
		"tds":              &in.TDS,
		"professionalTax":  &in.ProfessionalTax,
		"otherDeductions":  &in.OtherDeductions,
	}
	for name, target := range targets {
		n, err := web.FormNumber(form.Get(name))
		if err != nil {
			return salary.Components{}, err
		}
		if n != nil {
			*target = *n
		}
	}
	if strings.TrimSpace(form.Get("gross")) == "" {
		in.Gross = apiclient.NewNumber(salary.AutoGross(in))
	}
	v := shared.NewValidator()
	v.Struct(in)
	if v.HasIssues() {
		return salary.Components{}, errInvalid
	}
	return in, nil
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, Path, "salary_update_failed", nil)
		return
	}
	employeeID := h.employeeID(r, r.PostForm)
	var patch salary.Patch
	for _, f := range patch.Fields() {
		n, err := web.FormNumber(r.PostFormValue(f.Name))
		if err != nil {
			h.Web.Refuse(w, r, pageURL(employeeID), "form_invalid", nil)
			return
		}
		*f.Value = n
	}
	if _, err := h.Salary.Update(r.Context(), chi.URLParam(r, "structureID"), patch); err != nil {
		h.Web.Failed(w, r, err, pageURL(employeeID), "salary_update_failed")
		return
	}
	h.Web.Done(w, r, pageURL(employeeID), "salary_updated", nil)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Refuse(w, r, Path, "salary_delete_failed", nil)
		return
	}
	employeeID := h.employeeID(r, r.PostForm)
	if _, err := h.Salary.Delete(r.Context(), chi.URLParam(r, "structureID")); err != nil {
		h.Web.Failed(w, r, err, pageURL(employeeID), "salary_delete_failed")
		return
	}
	h.Web.Done(w, r, pageURL(employeeID), "salary_deleted", nil)
}

// handleExport renders the structure card as a PDF statement.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	employeeID := h.employeeID(r, r.URL.Query())
	s, err := h.Salary.GetByEmployee(r.Context(), employeeID)
	if err != nil {
		h.Web.Failed(w, r, err, pageURL(employeeID), "salary_export_failed")
		return
	}
	if s.Empty() {
		h.Web.Refuse(w, r, pageURL(employeeID), "empty_salary", nil)
		return
	}
	data, err := export.StatementPDF("Salary Structure", Statement(s))
	if err != nil {
		h.Web.Refuse(w, r, pageURL(employeeID), "salary_export_failed", nil)
		return
	}
	web.SendFile(w, "salary-structure.pdf", export.ContentTypePDF, data)
}

// Statement lays the structure out as the sections of the PDF export.
func Statement(s salary.Structure) []export.Section {
	earnings, deductions := Lines(s)
	owner := s.EmployeeID.DisplayName()
	if owner == "" {
		owner = s.EmployeeID.ID
	}
	sections := []export.Section{
		{Heading: "Employee", Lines: [][2]string{{"Name", owner}, {"Employee code", s.EmployeeID.EmployeeCode}}},
		{Heading: "Earnings", Lines: pairs(earnings)},
		{Heading: "Deductions", Lines: append(pairs(deductions), [2]string{"Total deductions", salary.Deductions(s).StringFixed(2)})},
		{Heading: "Summary", Lines: [][2]string{{"Net pay", salary.NetPay(s).StringFixed(2)}}},
	}
	return sections
}

func pairs(lines []Line) [][2]string {
	out := make([][2]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, [2]string{l.Label, l.Value.StringFixed(2)})
	}
	return out
}
