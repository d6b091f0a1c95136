package attendancehandler

import (
	"errors"
	"testing"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/attendance"
	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/employee"
)

func TestUpdateFromFormConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in, err := UpdateFromForm("2026-03-02", "09:30", "18:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ClockIn != "2026-03-02T04:00:00Z" {
		t.Fatalf("unexpected clock-in %q", in.ClockIn)
	}
	if in.ClockOut != "2026-03-02T12:30:00Z" {
		t.Fatalf("unexpected clock-out %q", in.ClockOut)
	}
	if in.Date != "2026-03-02" {
		t.Fatalf("unexpected date %q", in.Date)
	}
}

func TestUpdateFromFormRejectsBadInput(t *testing.T) {
	cases := []struct {
		name              string
		date, start, stop string
	}{
		{"bad date", "02/03/2026", "09:00", "17:00"},
		{"bad clock-in", "2026-03-02", "9am", "17:00"},
		{"bad clock-out", "2026-03-02", "09:00", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := UpdateFromForm(tc.date, tc.start, tc.stop, time.UTC); err == nil {
				t.Fatal("expected an error")
			}
		})
	}

	_, err := UpdateFromForm("2026-03-02", "17:00", "17:00", time.UTC)
	if !errors.Is(err, errClockOrder) {
		t.Fatalf("expected errClockOrder, got %v", err)
	}
}

func TestTableUsesListColumns(t *testing.T) {
	records := []attendance.Record{{
		ID:         "att-1",
		EmployeeID: employee.Ref{ID: "emp-1", FirstName: "Asha", LastName: "Rao", EmployeeCode: "E001"},
		Status:     attendance.StatusPresent,
	}}
	table := Table(records, Filters{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	if table.Subtitle != "2026-03-01 to 2026-03-31" {
		t.Fatalf("unexpected subtitle %q", table.Subtitle)
	}
	if len(table.Rows) != 1 || len(table.Rows[0]) != len(table.Headers) {
		t.Fatalf("unexpected table shape: %+v", table)
	}
	row := table.Rows[0]
	if row[0] != "Asha Rao" || row[1] != "E001" || row[6] != "present" {
		t.Fatalf("unexpected row %v", row)
	}
	if row[2] != "-" || row[3] != "-" {
		t.Fatalf("missing times must render as a dash, got %v", row)
	}
}
