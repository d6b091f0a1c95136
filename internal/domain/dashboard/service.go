package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var resp apiclient.Data[Stats]
	if err := s.client.Get(ctx, "/dashboard", nil, &resp); err != nil {
		slog.Warn("dashboard stats failed", "err", err)
		return nil, err
	}
	return resp.Value, nil
}

func (s *Service) ForEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var resp apiclient.Data[Employee]
	if err := s.client.Get(ctx, "/dashboard/employee/"+apiclient.PathEscape(employeeID), nil, &resp); err != nil {
		slog.Warn("employee dashboard failed", "employeeId", employeeID, "err", err)
		return Employee{}, err
	}
	return resp.Value, nil
}

// HolidayCalendar returns the organization's calendar, or nil when none was uploaded.
func (s *Service) HolidayCalendar(ctx context.Context, orgID string) (*Calendar, error) {
	var resp apiclient.Data[*Calendar]
	err := s.client.Get(ctx, "/holiday-calendar/"+apiclient.PathEscape(orgID), nil, &resp)
	if apiclient.StatusOf(err) == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		slog.Warn("holiday calendar failed", "organizationId", orgID, "err", err)
		return nil, err
	}
	if resp.Value == nil || resp.Value.URL() == "" {
		return nil, nil
	}
	return resp.Value, nil
}

// SaveHolidayCalendar stores an uploaded file URL as the organization's calendar.
func (s *Service) SaveHolidayCalendar(ctx context.Context, orgID, url string) (apiclient.Message, error) {
	var resp apiclient.Message
	body := map[string]string{"calendarFileName": url}
	if err := s.client.Post(ctx, "/holiday-calendar/"+apiclient.PathEscape(orgID), body, &resp); err != nil {
		slog.Warn("save holiday calendar failed", "organizationId", orgID, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}
