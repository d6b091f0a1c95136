package authhandler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/notifications"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

type SessionService interface {
	Login(ctx context.Context, sessionID, email, password string) (session.State, error)
	Logout(ctx context.Context, sessionID string) error
}

type Handler struct {
	Sessions SessionService
	Web      *web.Renderer
}

func NewHandler(sessions SessionService, renderer *web.Renderer) *Handler {
	return &Handler{Sessions: sessions, Web: renderer}
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRoutes mounts the login and logout endpoints. loginLimit throttles
// credential submissions.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.With(middleware.RedirectAuthenticated).Get("/login", h.handleLoginPage)
	r.With(middleware.RedirectAuthenticated, loginLimit).Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, map[string]string{"next": r.URL.Query().Get("next")}, nil, "")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, nil, nil, h.Web.T(r, "form_invalid"))
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	echo := map[string]string{"email": form.Email, "next": r.PostFormValue("next")}

	v := shared.NewValidator()
	v.Struct(form)
	if v.HasIssues() {
		h.renderLogin(w, r, http.StatusBadRequest, echo, v.FieldErrors(), h.Web.T(r, "form_invalid"))
		return
	}

	st := middleware.GetSession(r.Context())
	if _, err := h.Sessions.Login(r.Context(), st.SessionID, form.Email, form.Password); err != nil {
		status := http.StatusBadGateway
		if auth.IsCredentialError(err) {
			status = http.StatusUnauthorized
		}
		slog.Info("login rejected", "status", apiclient.StatusOf(err), "requestId", middleware.GetRequestID(r.Context()))
		h.renderLogin(w, r, status, echo, nil, apiclient.MessageOf(err, h.Web.T(r, "login_failed")))
		return
	}
	http.Redirect(w, r, middleware.SafeNext(echo["next"]), http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	if err := h.Sessions.Logout(r.Context(), st.SessionID); err != nil {
		slog.Warn("logout failed", "err", err)
	}
	h.Web.Flash(r.Context(), st.SessionID, notifications.Notice{
		Type:      notifications.TypeSignedOut,
		Level:     notifications.LevelInfo,
		MessageID: "signed_out",
	})
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// HandleRateLimited re-renders the login form for throttled attempts.
func (h *Handler) HandleRateLimited(w http.ResponseWriter, r *http.Request) {
	echo := map[string]string{"next": r.URL.Query().Get("next")}
	if err := r.ParseForm(); err == nil {
		echo["email"] = strings.TrimSpace(r.PostFormValue("email"))
		echo["next"] = r.PostFormValue("next")
	}
	h.renderLogin(w, r, http.StatusTooManyRequests, echo, nil, h.Web.T(r, "login_rate_limited"))
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string, message string) {
	h.Web.Render(w, r, status, "login", web.View{
		Title:  "Sign in",
		Form:   form,
		Errors: errs,
		Error:  message,
	})
}
