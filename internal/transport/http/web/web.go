// Package web renders the portal's HTML pages and maps page and action
// failures onto redirects, banners and one-shot notices.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/leave"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/notifications"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/i18n"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/requestctx"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the embedded stylesheet and scripts.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

type Notice struct {
	Level string
	Text  string
}

type NavItem struct {
	Title    string
	URL      string
	Active   bool
	Children []NavItem
}

// View is the data handed to every page template. Handlers fill Title, Data,
// Form, Errors and Error; Render fills the rest from the request.
type View struct {
	Title  string
	Data   any
	Form   map[string]string
	Errors map[string]string
	Error  string

	Session   session.State
	Locale    string
	Path      string
	RequestID string
	Nav       []NavItem
	Notices   []Notice
	Can       map[string]bool
}

type Renderer struct {
	pages   map[string]*template.Template
	tr      *i18n.Translator
	policy  *auth.Policy
	notices *notifications.Service
}

func NewRenderer(tr *i18n.Translator, policy *auth.Policy, notices *notifications.Service) (*Renderer, error) {
	rd := &Renderer{tr: tr, policy: policy, notices: notices, pages: map[string]*template.Template{}}

	base, err := template.New("base").Funcs(rd.funcs()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		rd.pages[name] = page
	}
	return rd, nil
}

// Render executes page inside the shared layout. Queued notices for the
// session are drained into the page.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, v View) {
	tmpl, ok := rd.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	st := middleware.GetSession(ctx)
	v.Session = st
	v.Locale = requestctx.GetLocale(ctx)
	v.Path = r.URL.Path
	v.RequestID = middleware.GetRequestID(ctx)
	if st.Authenticated {
		v.Nav = rd.nav(st.Role, r.URL.Path)
		v.Can = rd.can(st.Role)
	}
	for _, n := range rd.notices.Drain(ctx, st.SessionID) {
		v.Notices = append(v.Notices, Notice{Level: n.Level, Text: rd.noticeText(v.Locale, n)})
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		slog.Error("render failed", "page", page, "err", err, "requestId", v.RequestID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("write page failed", "err", err)
	}
}

// T translates messageID for the request's locale.
func (rd *Renderer) T(r *http.Request, messageID string, data ...map[string]any) string {
	return rd.tr.T(r.Context(), messageID, data...)
}

func (rd *Renderer) noticeText(locale string, n notifications.Notice) string {
	if n.Text != "" {
		return n.Text
	}
	return rd.tr.In(locale, n.MessageID, n.Data)
}

var navTable = []struct {
	title    string
	url      string
	pattern  string
	children []struct{ title, url, pattern string }
}{
	{title: "Dashboard", url: "/dashboard"},
	{title: "Employees", url: "/employees", pattern: auth.RouteEmployees},
	{title: "Attendance", url: "/attendance", pattern: auth.RouteAttendance},
	{title: "Leaves", url: "/leaves/policy", pattern: auth.RouteLeavePolicy, children: []struct{ title, url, pattern string }{
		{"Leave Policy", "/leaves/policy", auth.RouteLeavePolicy},
		{"Leave Balance", "/leaves/balance", auth.RouteLeaveBalance},
		{"Apply Leave", "/apply-leave", auth.RouteApplyLeave},
		{"Track Leave Request", "/leaves/track", auth.RouteLeaveTrack},
		{"Leave Requests", "/leaves/requests", auth.RouteLeaveRequests},
	}},
	{title: "Salary Structure", url: "/salary-slips", pattern: auth.RouteSalarySlips},
	{title: "Payroll", url: "/payroll", pattern: auth.RoutePayroll},
	{title: "Settings", url: "/settings"},
}

func (rd *Renderer) nav(role, current string) []NavItem {
	items := make([]NavItem, 0, len(navTable))
	for _, entry := range navTable {
		if entry.pattern != "" && !rd.policy.Allows(role, entry.pattern) {
			continue
		}
		item := NavItem{Title: entry.title, URL: entry.url, Active: strings.HasPrefix(current, entry.url)}
		for _, child := range entry.children {
			if !rd.policy.Allows(role, child.pattern) {
				continue
			}
			active := current == child.url
			item.Children = append(item.Children, NavItem{Title: child.title, URL: child.url, Active: active})
			item.Active = item.Active || active
		}
		items = append(items, item)
	}
	return items
}

var actionPatterns = []string{
	auth.ActionUploadCalendar,
	auth.ActionEditAttendance,
	auth.ActionManagePayroll,
	auth.ActionManageSalary,
	auth.ActionViewOtherEmployee,
}

func (rd *Renderer) can(role string) map[string]bool {
	out := make(map[string]bool, len(actionPatterns))
	for _, pattern := range actionPatterns {
		out[strings.TrimPrefix(pattern, "action:")] = rd.policy.Allows(role, pattern)
	}
	return out
}

var moneyPrinter = message.NewPrinter(language.English)

func (rd *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"t": func(locale, messageID string) string {
			return rd.tr.In(locale, messageID, nil)
		},
		"money": func(n apiclient.Number) string {
			return moneyPrinter.Sprint(number.Decimal(n.InexactFloat64(), number.Scale(2)))
		},
		"fixed": func(n apiclient.Number) string {
			return n.StringFixed(2)
		},
		"date": func(t apiclient.Time) string {
			if !t.Set() {
				return "-"
			}
			return t.Format("02 Jan 2006")
		},
		"clock": func(t apiclient.Time) string {
			if !t.Set() {
				return "-"
			}
			return t.Local().Format("03:04 PM")
		},
		"clockAt": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("03:04 PM")
		},
		"ymd": func(t apiclient.Time) string {
			if !t.Set() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"hm": func(t apiclient.Time) string {
			if !t.Set() {
				return ""
			}
			return t.Local().Format("15:04")
		},
		"badge":      badgeClass,
		"leaveBadge": leave.BadgeStatus,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"months": func() []int { return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12} },
		"monthName": func(m int) string {
			if m < 1 || m > 12 {
				return ""
			}
			return time.Month(m).String()
		},
		"add": func(a, b int) int { return a + b },
	}
}

func badgeClass(status string) string {
	switch strings.ToLower(status) {
	case "present", "approved", "processed":
		return "badge-ok"
	case "absent", "rejected", "declined", "cancelled":
		return "badge-bad"
	case "halfday", "late", "pending", "applied":
		return "badge-warn"
	default:
		return "badge-muted"
	}
}
