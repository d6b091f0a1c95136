package attendance

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/geo"
)

const (
	MarkedByUser       = "user"
	ReportFallbackName = "attendance-report.xlsx"
)

type Service struct {
	client *apiclient.Client
	now    func() time.Time
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client, now: time.Now}
}

func (s *Service) List(ctx context.Context, p ListParams) (apiclient.Page[Record], error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/attendance", p.query(), &raw); err != nil {
		slog.Warn("list attendance failed", "err", err)
		return apiclient.Page[Record]{}, err
	}
	return decodeList(raw, p.Limit)
}

// ListByEmployee lists one employee's records. Without any parameter the
// backend is asked for the first page of ten.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string, p ListParams) (apiclient.Page[Record], error) {
	q := apiclient.NewQuery().
		Int("page", p.Page).
		Int("limit", p.Limit).
		Set("status", p.Status).
		Set("startDate", p.StartDate).
		Set("endDate", p.EndDate)
	if q.Encode() == "" {
		q.Int("page", 1).Int("limit", apiclient.DefaultLimit)
	}
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/attendance/list-by-id/"+apiclient.PathEscape(employeeID), q, &raw); err != nil {
		slog.Warn("list employee attendance failed", "employeeId", employeeID, "err", err)
		return apiclient.Page[Record]{}, err
	}
	return decodeList(raw, p.Limit)
}

func (s *Service) Update(ctx context.Context, employeeID, attendanceID string, in UpdateInput) (Record, error) {
	var raw json.RawMessage
	path := "/attendance/" + apiclient.PathEscape(employeeID) + "/" + apiclient.PathEscape(attendanceID)
	if err := s.client.Patch(ctx, path, in, &raw); err != nil {
		slog.Warn("update attendance failed", "attendanceId", attendanceID, "err", err)
		return Record{}, err
	}
	rec, _ := decodeSingle(raw)
	return rec, nil
}

func (s *Service) ClockIn(ctx context.Context, employeeID string, at geo.Point, markedBy string) (Record, error) {
	if markedBy == "" {
		markedBy = MarkedByUser
	}
	return s.clock(ctx, "/attendance/clock-in/", employeeID, clockPayload{Latitude: at.Lat, Longitude: at.Lng, MarkedBy: markedBy})
}

func (s *Service) ClockOut(ctx context.Context, employeeID string, at geo.Point) (Record, error) {
	return s.clock(ctx, "/attendance/clock-out/", employeeID, clockPayload{Latitude: at.Lat, Longitude: at.Lng})
}

func (s *Service) clock(ctx context.Context, prefix, employeeID string, body clockPayload) (Record, error) {
	var raw json.RawMessage
	if err := s.client.Post(ctx, prefix+apiclient.PathEscape(employeeID), body, &raw); err != nil {
		slog.Warn("clock action failed", "path", prefix, "employeeId", employeeID, "err", err)
		return Record{}, err
	}
	rec, _ := decodeSingle(raw)
	return rec, nil
}

// Today returns the employee's record for the current day, or nil when there is none.
func (s *Service) Today(ctx context.Context, employeeID string) (*Record, error) {
	day := s.now().Format("2006-01-02")
	page, err := s.List(ctx, ListParams{Page: 1, Limit: 1, EmployeeID: employeeID, StartDate: day, EndDate: day})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, nil
	}
	rec := page.Items[0]
	return &rec, nil
}

// DownloadReport fetches the server-built attendance report for the filters.
func (s *Service) DownloadReport(ctx context.Context, p ListParams) (apiclient.File, error) {
	q := apiclient.NewQuery().
		Set("employeeId", p.EmployeeID).
		Set("startDate", p.StartDate).
		Set("endDate", p.EndDate).
		Set("status", p.Status)
	file, err := s.client.Download(ctx, "/attendance/report/download", q, ReportFallbackName)
	if err != nil {
		slog.Warn("download attendance report failed", "err", err)
		return apiclient.File{}, err
	}
	return file, nil
}

// MonthRange returns the first and last day of the month containing t as yyyy-mm-dd.
func MonthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
