package employee

import (
	"context"
	"log/slog"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	var resp apiclient.Data[Employee]
	if err := s.client.Get(ctx, "/auth/employees/"+apiclient.PathEscape(id), nil, &resp); err != nil {
		slog.Warn("fetch employee failed", "employeeId", id, "err", err)
		return Employee{}, err
	}
	return resp.Value, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (apiclient.Page[Employee], error) {
	limit := q.Limit
	if limit <= 0 {
		limit = apiclient.DefaultLimit
	}
	query := apiclient.NewQuery().
		Int("page", q.Page).
		Int("limit", limit).
		Set("search", q.Search)
	var page apiclient.Page[Employee]
	if err := s.client.Get(ctx, "/auth/employees", query, &page); err != nil {
		slog.Warn("list employees failed", "err", err)
		return apiclient.Page[Employee]{}, err
	}
	return page.Normalize(limit), nil
}

// UpdateProfile saves the settings form. An invalid reporting manager id is
// sent as null and the password only when one was typed.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (apiclient.Message, error) {
	var resp apiclient.Message
	if err := s.client.Put(ctx, "/auth/employees/"+apiclient.PathEscape(id), in.payload(), &resp); err != nil {
		slog.Warn("update profile failed", "employeeId", id, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}
