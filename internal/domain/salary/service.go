package salary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

var ErrNothingToUpdate = errors.New("no salary fields to update")

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// GetByEmployee returns the employee's structure. A 404 is reported as an
// empty structure so the page can offer to create one.
func (s *Service) GetByEmployee(ctx context.Context, employeeID string) (Structure, error) {
	var resp apiclient.Data[Structure]
	err := s.client.Get(ctx, "/salary-structures/employee/"+apiclient.PathEscape(employeeID), nil, &resp)
	if apiclient.StatusOf(err) == http.StatusNotFound {
		return Structure{}, nil
	}
	if err != nil {
		slog.Warn("fetch salary structure failed", "employeeId", employeeID, "err", err)
		return Structure{}, err
	}
	return resp.Value, nil
}

func (s *Service) Create(ctx context.Context, in Components) (apiclient.Message, error) {
	var resp apiclient.Message
	if err := s.client.Post(ctx, "/salary-structures", in, &resp); err != nil {
		slog.Warn("create salary structure failed", "employeeId", in.EmployeeID, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (apiclient.Message, error) {
	if p.Empty() {
		return apiclient.Message{}, ErrNothingToUpdate
	}
	var resp apiclient.Message
	if err := s.client.Put(ctx, "/salary-structures/"+apiclient.PathEscape(id), p, &resp); err != nil {
		slog.Warn("update salary structure failed", "structureId", id, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) (apiclient.Message, error) {
	var resp apiclient.Message
	if err := s.client.Delete(ctx, "/salary-structures/"+apiclient.PathEscape(id), &resp); err != nil {
		slog.Warn("delete salary structure failed", "structureId", id, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}
