package payroll

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, q ListQuery) (apiclient.Page[Record], error) {
	limit := q.Limit
	if limit <= 0 {
		limit = apiclient.DefaultLimit
	}
	query := apiclient.NewQuery().
		Int("page", q.Page).
		Int("limit", limit).
		Int("month", q.Month).
		Int("year", q.Year)
	var page apiclient.Page[Record]
	if err := s.client.Get(ctx, "/payroll", query, &page); err != nil {
		slog.Warn("list payroll failed", "err", err)
		return apiclient.Page[Record]{}, err
	}
	return page.Normalize(limit), nil
}

// ListByEmployee pages one employee's payroll with skip/limit offsets.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string, q ListQuery) (apiclient.Page[Record], error) {
	limit := q.Limit
	if limit <= 0 {
		limit = apiclient.DefaultLimit
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	query := apiclient.NewQuery().
		Skip("skip", (page-1)*limit).
		Int("limit", limit).
		Int("month", q.Month).
		Int("year", q.Year)
	var out apiclient.Page[Record]
	if err := s.client.Get(ctx, "/payroll/employee/"+apiclient.PathEscape(employeeID), query, &out); err != nil {
		slog.Warn("list employee payroll failed", "employeeId", employeeID, "err", err)
		return apiclient.Page[Record]{}, err
	}
	if out.Page == 0 {
		out.Page = page
	}
	return out.Normalize(limit), nil
}

func (s *Service) GetByEmployee(ctx context.Context, employeeID string, month, year int) (Record, error) {
	path := "/payroll/employee/" + apiclient.PathEscape(employeeID) + "/" + itoa(month) + "/" + itoa(year)
	var resp apiclient.Data[Record]
	if err := s.client.Get(ctx, path, nil, &resp); err != nil {
		slog.Warn("payroll detail failed", "employeeId", employeeID, "month", month, "year", year, "err", err)
		return Record{}, err
	}
	return resp.Value, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (apiclient.Message, error) {
	var resp apiclient.Message
	if err := s.client.Post(ctx, "/payroll", in, &resp); err != nil {
		slog.Warn("create payroll failed", "employeeId", in.EmployeeID, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

// Update saves an edited payroll. Month and year travel in the body and the
// query because the backend validates either.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (apiclient.Message, error) {
	q := apiclient.NewQuery().Int("month", in.Month).Int("year", in.Year)
	var resp apiclient.Message
	if err := s.client.PutQuery(ctx, "/payroll/"+apiclient.PathEscape(id), q, in, &resp); err != nil {
		slog.Warn("update payroll failed", "payrollId", id, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

func (s *Service) SendPayslip(ctx context.Context, employeeID string, month, year int) (apiclient.Message, error) {
	q := apiclient.NewQuery().Int("month", month).Int("year", year)
	body := map[string]int{"month": month, "year": year}
	var resp apiclient.Message
	if err := s.client.PostQuery(ctx, "/payroll/send-payslip/"+apiclient.PathEscape(employeeID), q, body, &resp); err != nil {
		slog.Warn("send payslip failed", "employeeId", employeeID, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

func (s *Service) Download(ctx context.Context, employeeID string, month, year int) (apiclient.File, error) {
	q := apiclient.NewQuery().Int("month", month).Int("year", year)
	file, err := s.client.Download(ctx, "/payroll/download/"+apiclient.PathEscape(employeeID), q, FallbackFileName(employeeID, month, year))
	if err != nil {
		slog.Warn("download payroll failed", "employeeId", employeeID, "err", err)
		return apiclient.File{}, err
	}
	return file, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
