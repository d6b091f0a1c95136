package leavehandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/leave"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/upload"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

const (
	TrackPath = "/leaves/track"
	ApplyPath = "/apply-leave"

	actionApply = "apply-leave"
	// cancelLookupLimit is the page size used to find the request being cancelled.
	cancelLookupLimit = 100
)

type Handler struct {
	Leaves   *leave.Service
	Uploads  *upload.Service
	Policy   *auth.Policy
	Notices  middleware.Notifier
	Tracker  *fetch.Tracker
	InFlight *middleware.InFlight
	Web      *web.Renderer
}

type listData struct {
	Title        string
	Action       string
	Status       string
	LeaveType    string
	Statuses     []string
	Types        []string
	Requests     []leave.Request
	Pager        web.Pager
	Empty        bool
	ShowEmployee bool
	CanCancel    bool
}

type applyData struct {
	Options []leave.TypeOption
}

type balanceData struct {
	LeaveType string
	Types     []string
	Rows      []leave.BalanceHistory
	Empty     bool
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	gate := func(pattern string) func(http.Handler) http.Handler {
		return middleware.RequireRole(h.Policy, h.Notices, pattern)
	}
	r.With(gate(auth.RouteApplyLeave)).Get(ApplyPath, h.handleApplyForm)
	r.With(gate(auth.RouteApplyLeave), h.InFlight.Guard(actionApply, http.HandlerFunc(h.handleApplyBusy))).Post(ApplyPath, h.handleApply)
	r.With(gate(auth.RouteLeaveTrack)).Get(TrackPath, h.handleTrack)
	r.With(gate(auth.RouteLeaveTrack)).Post("/leaves/{leaveID}/cancel", h.handleCancel)
	r.With(gate(auth.RouteLeaveBalance)).Get("/leaves/balance", h.handleBalance)
	r.With(gate(auth.RouteLeavePolicy)).Get("/leaves/policy", h.handlePolicies)
	r.With(gate(auth.RouteLeaveRequests)).Get("/leaves/requests", h.handleRequests)
	r.With(gate(auth.RouteLeaves)).Get("/leaves", h.handleRequests)
}

func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	self := middleware.GetSession(r.Context()).User.EmployeeID()
	h.renderList(w, r, "leave-track", []string{self}, listData{
		Title:     "Track leave",
		Action:    TrackPath,
		CanCancel: true,
	})
}

// handleRequests is the organization-wide list; /leaves renders the same page.
func (h *Handler) handleRequests(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "leave-requests", nil, listData{
		Title:        "Leave requests",
		Action:       r.URL.Path,
		ShowEmployee: true,
	})
}

type listResult struct {
	page  apiclient.Page[leave.Request]
	types []string
}

func (r listResult) Len() int { return len(r.page.Items) }

// FilterTypes lists the allowed leave types the policies actually use, for
// the type filter. Without usable policies every allowed type is offered.
func FilterTypes(policies []leave.Policy) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range leave.DistinctTypes(policies) {
		t = strings.ToLower(strings.TrimSpace(t))
		if !leave.IsAllowedType(t) || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return leave.AllowedTypes
	}
	return out
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, key string, employeeIDs []string, data listData) {
	st := middleware.GetSession(r.Context())
	q := r.URL.Query()
	p := shared.ParsePagination(r, apiclient.DefaultLimit, apiclient.DefaultLimit)
	data.Status = strings.TrimSpace(q.Get("status"))
	data.LeaveType = strings.ToLower(strings.TrimSpace(q.Get("leaveType")))
	data.Statuses = leave.StatusFilters

	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, key), func(ctx context.Context) (listResult, error) {
		var res listResult
		errs := fetch.All(ctx,
			fetch.Task{Name: "requests", Run: func(ctx context.Context) (err error) {
				res.page, err = h.Leaves.ListRequests(ctx, leave.RequestQuery{
					Page:        p.Page,
					Limit:       apiclient.DefaultLimit,
					Status:      data.Status,
					EmployeeIDs: employeeIDs,
					LeaveType:   data.LeaveType,
				})
				return err
			}},
			fetch.Task{Name: "types", Run: func(ctx context.Context) error {
				policies, err := h.Leaves.Policies(ctx)
				res.types = FilterTypes(policies)
				return err
			}},
		)
		if errors.Is(errs["types"], apiclient.ErrSessionInvalid) {
			return res, errs["types"]
		}
		return res, errs["requests"]
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}
	view := web.View{Title: data.Title}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_leaves")
		data.Types = leave.AllowedTypes
	} else {
		data.Types = state.Data.types
		data.Requests = state.Data.page.Items
		data.Empty = state.Empty()
		data.Pager = web.NewPager(r, state.Data.page.Page, state.Data.page.TotalPages, state.Data.page.Total)
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "leave_list", view)
}

// handleCancel withdraws one of the user's own requests while it is still
// pending or applied.
func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	leaveID := chi.URLParam(r, "leaveID")
	self := middleware.GetSession(r.Context()).User.EmployeeID()

	found, err := h.findOwnRequest(r.Context(), self, leaveID)
	if err != nil {
		h.Web.Failed(w, r, err, TrackPath, "leave_cancel_failed")
		return
	}
	if found == nil || !found.Cancellable() {
		h.Web.Refuse(w, r, TrackPath, "leave_cancel_not_allowed", nil)
		return
	}
	if _, err := h.Leaves.Cancel(r.Context(), leaveID); err != nil {
		h.Web.Failed(w, r, err, TrackPath, "leave_cancel_failed")
		return
	}
	h.Web.Done(w, r, TrackPath, "leave_cancelled", nil)
}

// findOwnRequest pages through the employee's requests until leaveID turns up.
// A nil request means the id is not one of theirs.
func (h *Handler) findOwnRequest(ctx context.Context, employeeID, leaveID string) (*leave.Request, error) {
	for pageNo := 1; ; pageNo++ {
		page, err := h.Leaves.ListRequests(ctx, leave.RequestQuery{Page: pageNo, Limit: cancelLookupLimit, EmployeeIDs: []string{employeeID}})
		if err != nil {
			return nil, err
		}
		for i := range page.Items {
			if page.Items[i].ID == leaveID {
				return &page.Items[i], nil
			}
		}
		if len(page.Items) == 0 || pageNo >= page.TotalPages {
			return nil, nil
		}
	}
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	leaveType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("leaveType")))
	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "leave-balance"), func(ctx context.Context) ([]leave.BalanceHistory, error) {
		return h.Leaves.BalanceHistory(ctx, st.User.EmployeeID(), leaveType)
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}
	view := web.View{Title: "Leave balance"}
	data := balanceData{LeaveType: leaveType, Types: leave.BalanceOrder}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_leave_balance")
	} else {
		if leaveType == "" || leaveType == "all" {
			data.Rows = leave.BalanceRows(state.Data)
		} else {
			data.Rows = state.Data
		}
		data.Empty = len(data.Rows) == 0
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "leave_balance", view)
}

func (h *Handler) handlePolicies(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "leave-policy"), h.Leaves.Policies)
	if h.Web.Intercept(w, r, state.Err) {
		return
	}
	view := web.View{Title: "Leave policy"}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_leave_policies")
	} else {
		view.Data = state.Data
	}
	h.Web.Render(w, r, http.StatusOK, "leave_policy", view)
}

func (h *Handler) handleApplyForm(w http.ResponseWriter, r *http.Request) {
	h.renderApply(w, r, http.StatusOK, nil, nil)
}

func (h *Handler) renderApply(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	policies, err := h.Leaves.Policies(r.Context())
	if h.Web.Intercept(w, r, err) {
		return
	}
	view := web.View{Title: "Apply leave", Form: form, Errors: errs}
	if err != nil {
		view.Error = h.Web.T(r, "load_failed_leave_policies")
	}
	view.Data = applyData{Options: leave.TypeOptions(policies)}
	h.Web.Render(w, r, status, "apply_leave", view)
}

var applyFields = []string{"leaveTypeId", "startDate", "endDate", "days", "reason"}

// handleApply uploads the attached documents and then files the request.
// A failed upload stops the submission.
func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := web.ParseForm(r); err != nil {
		h.Web.Refuse(w, r, ApplyPath, "leave_apply_failed", nil)
		return
	}
	form := web.Values(r, applyFields...)
	self := middleware.GetSession(r.Context()).User.EmployeeID()

	policies, err := h.Leaves.Policies(r.Context())
	if err != nil {
		h.Web.Failed(w, r, err, ApplyPath, "leave_apply_failed")
		return
	}
	in, v := BuildApply(self, form, leave.TypeOptions(policies))
	if v.HasIssues() {
		h.renderApply(w, r, http.StatusUnprocessableEntity, form, v.FieldErrors())
		return
	}

	files, err := web.FormFiles(r, "documents", leave.MaxDocuments)
	if err != nil {
		h.renderApply(w, r, http.StatusUnprocessableEntity, form, map[string]string{
			"documents": h.Web.T(r, "leave_too_many_documents", map[string]any{"Max": leave.MaxDocuments}),
		})
		return
	}
	for _, f := range files {
		url, err := h.Uploads.UploadFile(r.Context(), f.Name, f.ContentType, f.Data)
		if err != nil {
			h.Web.Failed(w, r, err, ApplyPath, "upload_failed")
			return
		}
		in.DocumentURLs = append(in.DocumentURLs, url)
	}

	if _, err := h.Leaves.Create(r.Context(), in); err != nil {
		h.Web.Failed(w, r, err, ApplyPath, "leave_apply_failed")
		return
	}
	h.Web.Done(w, r, TrackPath, "leave_applied", nil)
}

func (h *Handler) handleApplyBusy(w http.ResponseWriter, r *http.Request) {
	h.Web.Refuse(w, r, ApplyPath, "leave_apply_failed", nil)
}

// BuildApply validates the apply form against the selectable leave types.
// Days default to the inclusive span of the dates; a positive override wins.
func BuildApply(employeeID string, form map[string]string, options []leave.TypeOption) (leave.ApplyInput, *shared.Validator) {
	v := shared.NewValidator()
	in := leave.ApplyInput{
		EmployeeID: employeeID,
		StartDate:  form["startDate"],
		EndDate:    form["endDate"],
		Reason:     form["reason"],
	}

	v.Required("leaveTypeId", form["leaveTypeId"], "choose a leave type")
	for _, opt := range options {
		if opt.ID == form["leaveTypeId"] {
			in.LeaveTypeID = opt.ID
			in.LeavePolicyID = opt.PolicyID
			in.LeaveType = strings.ToLower(opt.Type)
			break
		}
	}
	if form["leaveTypeId"] != "" && in.LeaveTypeID == "" {
		v.Add("leaveTypeId", "unknown leave type")
	}

	start, okStart := v.Date("startDate", form["startDate"])
	end, okEnd := v.Date("endDate", form["endDate"])
	if okStart && okEnd {
		v.DateOrder("startDate", start, "endDate", end)
		if days, err := leave.CalculateDays(start, end); err == nil {
			in.Days = days
		}
	}
	if raw := form["days"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("days", "must be a positive whole number")
		} else {
			in.Days = n
		}
	}
	if !v.HasIssues() {
		v.Struct(in)
	}
	return in, v
}
