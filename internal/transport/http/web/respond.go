package web

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/notifications"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/fetch"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/api"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
)

// Intercept handles the failures no page renders itself: a session the
// backend rejected goes back to login, and a superseded fetch is answered
// with 409 and never rendered. It reports whether it wrote the response.
func (rd *Renderer) Intercept(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, apiclient.ErrSessionInvalid), errors.Is(err, session.ErrUnauthenticated):
		rd.SessionExpired(w, r)
		return true
	case errors.Is(err, fetch.ErrSuperseded):
		api.Fail(w, http.StatusConflict, "superseded", "a newer request replaced this one", middleware.GetRequestID(r.Context()))
		return true
	}
	return false
}

// SessionExpired sends the browser to the login page with a notice.
func (rd *Renderer) SessionExpired(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == middleware.LoginPath {
		return
	}
	st := middleware.GetSession(r.Context())
	rd.Flash(r.Context(), st.SessionID, notifications.Notice{
		Type:      notifications.TypeSessionExpired,
		Level:     notifications.LevelInfo,
		MessageID: "session_expired",
	})
	next := ""
	if r.Method == http.MethodGet {
		next = r.URL.RequestURI()
	}
	http.Redirect(w, r, middleware.LoginURL(next), http.StatusSeeOther)
}

func (rd *Renderer) Flash(ctx context.Context, sessionID string, n notifications.Notice) {
	if err := rd.notices.Push(ctx, sessionID, n); err != nil {
		slog.Warn("notice not stored", "type", n.Type, "err", err)
	}
}

// Done flashes a success notice and redirects to target.
func (rd *Renderer) Done(w http.ResponseWriter, r *http.Request, target, messageID string, data map[string]any) {
	rd.Flash(r.Context(), middleware.GetSession(r.Context()).SessionID, notifications.Success(messageID, data))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Failed flashes the backend's message, or messageID when there is none, and
// redirects to target. Session failures go to login instead.
func (rd *Renderer) Failed(w http.ResponseWriter, r *http.Request, err error, target, messageID string) {
	if rd.Intercept(w, r, err) {
		return
	}
	rd.Flash(r.Context(), middleware.GetSession(r.Context()).SessionID, notifications.Failure(messageID, apiclient.MessageOf(err, "")))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Refuse flashes a local (non-backend) failure and redirects to target.
func (rd *Renderer) Refuse(w http.ResponseWriter, r *http.Request, target, messageID string, data map[string]any) {
	n := notifications.Failure(messageID, "")
	n.Data = data
	rd.Flash(r.Context(), middleware.GetSession(r.Context()).SessionID, n)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// NotFound renders the not-found page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusNotFound, "notfound", View{Title: rd.T(r, "not_found")})
}

// SendFile writes a downloadable file.
func SendFile(w http.ResponseWriter, name, contentType string, data []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("write download failed", "err", err)
	}
}
