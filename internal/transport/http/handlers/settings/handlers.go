package settingshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/upload"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/middleware"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/shared"
	"github.com/sahiltiwari-png/guccc-hrms/internal/transport/http/web"
)

const Path = "/settings"

// UserUpdater rewrites the user kept in a session.
type UserUpdater interface {
	UpdateUser(ctx context.Context, sessionID string, user auth.User) error
}

type Handler struct {
	Employees *employee.Service
	Uploads   *upload.Service
	Sessions  UserUpdater
	Web       *web.Renderer
}

type pageData struct {
	Photo string
}

var profileFields = []string{"firstName", "lastName", "email", "phone", "reportingManagerId"}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(Path, h.handleForm)
	r.Get("/profile", h.handleForm)
	r.Post(Path, h.handleSave)
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	emp, err := h.Employees.Get(r.Context(), st.User.EmployeeID())
	if h.Web.Intercept(w, r, err) {
		return
	}
	view := web.View{Title: "Settings"}
	if err != nil {
		view.Error = h.Web.T(r, "load_failed_profile")
		emp = employeeFromUser(st.User)
	}
	view.Form = FormOf(emp)
	view.Data = pageData{Photo: emp.ProfilePhotoURL}
	h.Web.Render(w, r, http.StatusOK, "settings", view)
}

func employeeFromUser(u auth.User) employee.Employee {
	return employee.Employee{
		ID:              u.EmployeeID(),
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		ProfilePhotoURL: u.Photo(),
	}
}

// FormOf prefills the settings form from the stored employee.
func FormOf(e employee.Employee) map[string]string {
	return map[string]string{
		"firstName":          e.FirstName,
		"lastName":           e.LastName,
		"email":              e.Email,
		"phone":              e.Phone,
		"reportingManagerId": e.ManagerID(),
	}
}

// handleSave uploads a new profile image when one was chosen, then saves the
// profile with its URL and refreshes the session user.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetSession(r.Context())
	if err := web.ParseForm(r); err != nil {
		h.Web.Refuse(w, r, Path, "profile_save_failed", nil)
		return
	}
	form := web.Values(r, profileFields...)
	in := employee.ProfileInput{
		FirstName:          form["firstName"],
		LastName:           form["lastName"],
		Email:              form["email"],
		Phone:              form["phone"],
		Password:           r.FormValue("password"),
		ProfilePhotoURL:    r.FormValue("currentPhoto"),
		ReportingManagerID: form["reportingManagerId"],
	}

	photo, err := web.FormFile(r, "photo")
	hasPhoto := err == nil
	if err != nil && !errors.Is(err, web.ErrNoFile) {
		h.Web.Refuse(w, r, Path, "upload_failed", nil)
		return
	}

	// validated before the photo is uploaded so a rejected form leaves no file behind
	v := shared.NewValidator()
	v.Struct(in)
	if v.HasIssues() {
		h.Web.Render(w, r, http.StatusUnprocessableEntity, "settings", web.View{
			Title:  "Settings",
			Form:   form,
			Errors: v.FieldErrors(),
			Data:   pageData{Photo: in.ProfilePhotoURL},
		})
		return
	}

	if hasPhoto {
		url, err := h.Uploads.UploadImage(r.Context(), photo.Name, photo.ContentType, photo.Data)
		if err != nil {
			h.Web.Failed(w, r, err, Path, "upload_failed")
			return
		}
		in.ProfilePhotoURL = url
	}

	if _, err := h.Employees.UpdateProfile(r.Context(), st.User.EmployeeID(), in); err != nil {
		h.Web.Failed(w, r, err, Path, "profile_save_failed")
		return
	}
	if err := h.Sessions.UpdateUser(r.Context(), st.SessionID, MergeUser(st.User, in)); err != nil {
		slog.Warn("refresh session user failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
	}
	h.Web.Done(w, r, Path, "profile_saved", nil)
}

// MergeUser applies a saved profile to the session user.
func MergeUser(u auth.User, in employee.ProfileInput) auth.User {
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Name = in.FullName()
	u.Email = in.Email
	u.Phone = in.Phone
	if in.ProfilePhotoURL != "" {
		u.ProfilePhotoURL = in.ProfilePhotoURL
	}
	return u
}
