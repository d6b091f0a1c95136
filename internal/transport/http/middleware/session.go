package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/requestctx"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
)

type ctxKey string

const ctxKeySession ctxKey = "session"

type Hydrator interface {
	Hydrate(ctx context.Context, sessionID string) (session.State, error)
}

type LocaleMatcher interface {
	Match(acceptLanguage string) string
}

type SessionOptions struct {
	CookieName string
	Secure     bool
	IdleTTL    time.Duration
}

// Session identifies the browser by an opaque cookie, hydrates its stored
// HRMS session and exposes it to handlers. Backend calls made with the
// request context carry the session's bearer token.
func Session(sessions Hydrator, store storage.Storage, locales LocaleMatcher, opts SessionOptions) func(http.Handler) http.Handler {
	if opts.CookieName == "" {
		opts.CookieName = "hrms_sid"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, fresh := sessionID(r, opts.CookieName)
			ctx := requestctx.WithSessionID(r.Context(), sid)
			if locales != nil {
				ctx = requestctx.WithLocale(ctx, locales.Match(r.Header.Get("Accept-Language")))
			}

			st := session.State{SessionID: sid}
			if !fresh {
				hydrated, err := sessions.Hydrate(ctx, sid)
				if err != nil {
					slog.Warn("session hydrate failed", "err", err, "requestId", GetRequestID(ctx))
				} else {
					st = hydrated
				}
			}
			if st.Authenticated {
				ctx = apiclient.WithToken(ctx, st.Token)
				if err := store.Touch(ctx, sid); err != nil {
					slog.Warn("session touch failed", "err", err)
				}
			}
			if fresh || st.Authenticated {
				setSessionCookie(w, opts, sid)
			}

			ctx = context.WithValue(ctx, ctxKeySession, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionID(r *http.Request, name string) (string, bool) {
	if c, err := r.Cookie(name); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), false
		}
	}
	return uuid.NewString(), true
}

func setSessionCookie(w http.ResponseWriter, opts SessionOptions, sid string) {
	cookie := &http.Cookie{
		Name:     opts.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.IdleTTL > 0 {
		cookie.MaxAge = int(opts.IdleTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

// GetSession returns the hydrated session. Outside the Session middleware it
// is an empty, unauthenticated state.
func GetSession(ctx context.Context) session.State {
	st, _ := ctx.Value(ctxKeySession).(session.State)
	if st.SessionID == "" {
		st.SessionID = requestctx.GetSessionID(ctx)
	}
	return st
}

// WithSession replaces the session carried by ctx, used after login and
// profile updates within the same request.
func WithSession(ctx context.Context, st session.State) context.Context {
	ctx = context.WithValue(ctx, ctxKeySession, st)
	if st.Authenticated {
		ctx = apiclient.WithToken(ctx, st.Token)
	}
	return ctx
}
