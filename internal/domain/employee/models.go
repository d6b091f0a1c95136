package employee

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Ref is an employee reference that the backend sends either as a plain id or
// as a populated object.
type Ref struct {
	ID              string `json:"_id,omitempty"`
	Name            string `json:"name,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	EmployeeCode    string `json:"employeeCode,omitempty"`
	Designation     string `json:"designation,omitempty"`
	ProfilePhotoURL string `json:"profilePhotoUrl,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var out struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*r = Ref(out.plain)
	if r.ID == "" {
		r.ID = out.AltID
	}
	return nil
}

func (r Ref) Empty() bool { return r.ID == "" && r.DisplayName() == "" }

func (r Ref) DisplayName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Employee is the detail returned by GET /auth/employees/{id}.
type Employee struct {
	ID                 string `json:"_id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Role               string `json:"role"`
	EmployeeCode       string `json:"employeeCode"`
	Designation        string `json:"designation"`
	Department         string `json:"department"`
	Status             string `json:"status"`
	ProfilePhotoURL    string `json:"profilePhotoUrl"`
	ReportingManagerID Ref    `json:"reportingManagerId"`
}

func (e Employee) DisplayName() string {
	if name := strings.TrimSpace(e.Name); name != "" {
		return name
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// ManagerID returns the reporting manager id only when it is a valid object id.
func (e Employee) ManagerID() string {
	return SanitizeObjectID(e.ReportingManagerID.ID)
}

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// SanitizeObjectID returns id when it is a 24 character hex object id, else "".
func SanitizeObjectID(id string) string {
	id = strings.TrimSpace(id)
	if objectIDPattern.MatchString(id) {
		return id
	}
	return ""
}

// ProfileInput is the editable part of the settings form.
type ProfileInput struct {
	FirstName          string `validate:"required,max=100"`
	LastName           string `validate:"max=100"`
	Email              string `validate:"required,email"`
	Phone              string `validate:"max=20"`
	Password           string `validate:"omitempty,min=6"`
	ProfilePhotoURL    string `validate:"omitempty,url"`
	ReportingManagerID string
}

func (in ProfileInput) FullName() string {
	return strings.TrimSpace(in.FirstName + " " + in.LastName)
}

type profilePayload struct {
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	ProfilePhotoURL    string  `json:"profilePhotoUrl"`
	ReportingManagerID *string `json:"reportingManagerId"`
	Password           string  `json:"password,omitempty"`
}

func (in ProfileInput) payload() profilePayload {
	p := profilePayload{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Name:            in.FullName(),
		Email:           in.Email,
		Phone:           in.Phone,
		ProfilePhotoURL: in.ProfilePhotoURL,
		Password:        in.Password,
	}
	if id := SanitizeObjectID(in.ReportingManagerID); id != "" {
		p.ReportingManagerID = &id
	}
	return p
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}
