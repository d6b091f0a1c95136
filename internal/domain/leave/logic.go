package leave

import (
	"errors"
	"math"
	"strings"
	"time"
)

var ErrInvalidRange = errors.New("end date before start date")

// CalculateDays returns the inclusive day count between start and end.
// Dates are compared as calendar days, so 2024-01-10..2024-01-12 is 3.
func CalculateDays(start, end time.Time) (int, error) {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0, ErrInvalidRange
	}
	return int(math.Round(e.Sub(s).Hours()/24)) + 1, nil
}

// CanCancel reports whether a request in status can still be withdrawn.
func CanCancel(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusPending, StatusApplied:
		return true
	}
	return false
}

// BadgeStatus folds backend status spellings into the badge shown for them.
func BadgeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "declined":
		return StatusRejected
	case "":
		return StatusPending
	}
	return s
}

func IsAllowedType(leaveType string) bool {
	t := strings.ToLower(strings.TrimSpace(leaveType))
	for _, allowed := range AllowedTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// TypeOptions flattens policies into the selectable leave types, keeping
// only the allowed kinds that carry an id.
func TypeOptions(policies []Policy) []TypeOption {
	var out []TypeOption
	for _, p := range policies {
		for _, lt := range p.LeaveTypes {
			if lt.ID == "" || !IsAllowedType(lt.Type) {
				continue
			}
			out = append(out, TypeOption{ID: lt.ID, Type: lt.Type, PolicyID: p.ID})
		}
	}
	return out
}

// DistinctTypes lists the leave type names used by the policies, in first-seen order.
func DistinctTypes(policies []Policy) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range policies {
		for _, lt := range p.LeaveTypes {
			if lt.Type == "" || seen[lt.Type] {
				continue
			}
			seen[lt.Type] = true
			out = append(out, lt.Type)
		}
	}
	return out
}

// BalanceRows returns one row per type in BalanceOrder, zero-filled when the
// backend has no entry, followed by any other types it reported.
func BalanceRows(items []BalanceHistory) []BalanceHistory {
	byType := map[string]BalanceHistory{}
	var extra []BalanceHistory
	for _, item := range items {
		key := strings.ToLower(item.LeaveType)
		if !isOrdered(key) {
			extra = append(extra, item)
			continue
		}
		byType[key] = item
	}
	rows := make([]BalanceHistory, 0, len(BalanceOrder)+len(extra))
	for _, t := range BalanceOrder {
		if item, ok := byType[t]; ok {
			rows = append(rows, item)
			continue
		}
		rows = append(rows, BalanceHistory{LeaveType: t})
	}
	return append(rows, extra...)
}

func isOrdered(t string) bool {
	for _, o := range BalanceOrder {
		if o == t {
			return true
		}
	}
	return false
}

// FilterByType keeps requests whose leave type matches, case-insensitively.
func FilterByType(items []Request, leaveType string) []Request {
	want := strings.ToLower(strings.TrimSpace(leaveType))
	if want == "" || want == "all" {
		return items
	}
	out := make([]Request, 0, len(items))
	for _, item := range items {
		if strings.ToLower(item.LeaveType) == want {
			out = append(out, item)
		}
	}
	return out
}
