package auth

import (
	"strings"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

// User is the identity returned at login and kept in the session.
type User struct {
	MongoID         string       `json:"_id,omitempty"`
	ID              string       `json:"id,omitempty"`
	Name            string       `json:"name,omitempty"`
	FirstName       string       `json:"firstName,omitempty"`
	LastName        string       `json:"lastName,omitempty"`
	Email           string       `json:"email,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	Role            string       `json:"role,omitempty"`
	OrganizationID  apiclient.ID `json:"organizationId,omitempty"`
	EmployeeCode    string       `json:"employeeCode,omitempty"`
	Designation     string       `json:"designation,omitempty"`
	ProfilePhotoURL string       `json:"profilePhotoUrl,omitempty"`
	ProfileImage    string       `json:"profileImage,omitempty"`
}

// EmployeeID is the id the backend expects in employee-scoped paths.
func (u User) EmployeeID() string {
	if u.MongoID != "" {
		return u.MongoID
	}
	return u.ID
}

func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return "Employee"
}

func (u User) Photo() string {
	if u.ProfilePhotoURL != "" {
		return u.ProfilePhotoURL
	}
	return u.ProfileImage
}

type LoginResult struct {
	Token string
	User  User
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
	Role        string `json:"role"`
	Data        *struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	} `json:"data"`
}

func (r loginResponse) result() LoginResult {
	out := LoginResult{Token: r.Token}
	if out.Token == "" {
		out.Token = r.AccessToken
	}
	if r.User != nil {
		out.User = *r.User
	}
	if r.Data != nil {
		if out.Token == "" {
			out.Token = r.Data.Token
		}
		if r.User == nil && r.Data.User != nil {
			out.User = *r.Data.User
		}
	}
	if out.User.Role == "" {
		out.User.Role = r.Role
	}
	return out
}
