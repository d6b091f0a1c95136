package employeeshandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

type Handler struct {
	Employees *employee.Service
	Policy    *auth.Policy
	Notices   middleware.Notifier
	Tracker   *fetch.Tracker
	Web       *web.Renderer
}

type pageData struct {
	Search    string
	Employees []employee.Employee
	Pager     web.Pager
	Empty     bool
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(h.Policy, h.Notices, auth.RouteEmployees)).Get("/employees", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	p := shared.ParsePagination(r, apiclient.DefaultLimit, apiclient.DefaultLimit)

	state := fetch.Run(r.Context(), h.Tracker, fetch.Key(st.SessionID, "employees"), func(ctx context.Context) (apiclient.Page[employee.Employee], error) {
		return h.Employees.List(ctx, employee.ListQuery{Page: p.Page, Limit: apiclient.DefaultLimit, Search: search})
	})
	if h.Web.Intercept(w, r, state.Err) {
		return
	}
	view := web.View{Title: "Employees"}
	data := pageData{Search: search}
	if state.Failed() {
		view.Error = h.Web.T(r, "load_failed_employees")
	} else {
		data.Employees = state.Data.Items
		data.Empty = state.Empty()
		data.Pager = web.NewPager(r, state.Data.Page, state.Data.TotalPages, state.Data.Total)
	}
	view.Data = data
	h.Web.Render(w, r, http.StatusOK, "employees", view)
}
