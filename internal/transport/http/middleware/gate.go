package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/notifications"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type Notifier interface {
	Push(ctx context.Context, sessionID string, n notifications.Notice) error
}

// RequireAuth sends unauthenticated browsers to the login page, remembering
// where they were headed.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()).Authenticated {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, LoginURL(returnTarget(r)), http.StatusSeeOther)
	})
}

// RequireRole admits only roles the policy allows for pattern. Everyone else
// is sent to the dashboard with an access-denied notice naming the path.
// Patterns without a role set leave the handler unwrapped.
func RequireRole(policy *auth.Policy, notices Notifier, pattern string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.Gated(pattern) {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := GetSession(r.Context())
			if policy.Allows(st.Role, pattern) {
				next.ServeHTTP(w, r)
				return
			}
			slog.Info("route denied", "path", r.URL.Path, "role", st.Role, "knownRole", auth.IsKnownRole(st.Role), "requestId", GetRequestID(r.Context()))
			if err := notices.Push(r.Context(), st.SessionID, notifications.AccessDenied(r.URL.Path)); err != nil {
				slog.Warn("access notice not stored", "err", err)
			}
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
		})
	}
}

// RedirectAuthenticated keeps signed-in browsers off the login page.
func RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()).Authenticated {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL builds the login address with an optional return target.
func LoginURL(next string) string {
	if next == "" || next == LoginPath || next == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext accepts only local absolute paths as post-login targets.
func SafeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return DashboardPath
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Path == LoginPath {
		return DashboardPath
	}
	return next
}

func returnTarget(r *http.Request) string {
	if r.Method == http.MethodGet {
		return r.URL.RequestURI()
	}
	return r.URL.Path
}
