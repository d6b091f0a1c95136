package leave

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// ListRequests lists leave requests. The leave type filter is applied again
// locally because the backend may ignore it; totals then follow the kept rows.
func (s *Service) ListRequests(ctx context.Context, q RequestQuery) (apiclient.Page[Request], error) {
	limit := q.Limit
	if limit <= 0 {
		limit = apiclient.DefaultLimit
	}
	status := q.Status
	if status == "all" {
		status = ""
	}
	leaveType := strings.ToLower(q.LeaveType)
	if leaveType == "all" {
		leaveType = ""
	}
	query := apiclient.NewQuery().
		Int("page", q.Page).
		Int("limit", limit).
		Set("status", status).
		Set("employeeIds", strings.Join(q.EmployeeIDs, ",")).
		Set("leaveType", leaveType)

	var page apiclient.Page[Request]
	if err := s.client.Get(ctx, "/leaves", query, &page); err != nil {
		slog.Warn("list leave requests failed", "err", err)
		return apiclient.Page[Request]{}, err
	}
	received := len(page.Items)
	page.Items = FilterByType(page.Items, leaveType)
	if len(page.Items) < received {
		// The backend ignored the type filter, so its totals count other types.
		// Count what this page shows on top of the pages before it.
		current := max(page.Page, 1)
		page.Total = (current-1)*limit + len(page.Items)
		page.Limit = limit
	}
	return page.Normalize(limit), nil
}

func (s *Service) Create(ctx context.Context, in ApplyInput) (apiclient.Message, error) {
	if len(in.DocumentURLs) > 0 && in.DocumentURL == "" {
		in.DocumentURL = in.DocumentURLs[0]
	}
	var resp apiclient.Message
	if err := s.client.Post(ctx, "/leaves", in, &resp); err != nil {
		slog.Warn("create leave request failed", "employeeId", in.EmployeeID, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (apiclient.Message, error) {
	var resp apiclient.Message
	if err := s.client.Patch(ctx, "/leaves/"+apiclient.PathEscape(id)+"/cancel", nil, &resp); err != nil {
		slog.Warn("cancel leave request failed", "leaveId", id, "err", err)
		return apiclient.Message{}, err
	}
	return resp, nil
}

func (s *Service) Policies(ctx context.Context) ([]Policy, error) {
	var resp apiclient.Data[[]Policy]
	if err := s.client.Get(ctx, "/leave-policies", nil, &resp); err != nil {
		slog.Warn("list leave policies failed", "err", err)
		return nil, err
	}
	return resp.Value, nil
}

func (s *Service) BalanceHistory(ctx context.Context, employeeID, leaveType string) ([]BalanceHistory, error) {
	if leaveType == "all" {
		leaveType = ""
	}
	q := apiclient.NewQuery().Set("leaveType", strings.ToLower(leaveType))
	var resp apiclient.Data[[]BalanceHistory]
	if err := s.client.Get(ctx, "/leaves/balance/history/"+apiclient.PathEscape(employeeID), q, &resp); err != nil {
		slog.Warn("leave balance history failed", "employeeId", employeeID, "err", err)
		return nil, err
	}
	return resp.Value, nil
}
