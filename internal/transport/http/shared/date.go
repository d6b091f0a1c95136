package shared

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(DateLayout, value)
}

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// MonthYear reads month and year form values, defaulting to now's month and
// year when either is missing or out of range.
func MonthYear(monthRaw, yearRaw string, now time.Time) (int, int) {
	month, err := strconv.Atoi(strings.TrimSpace(monthRaw))
	if err != nil || month < 1 || month > 12 {
		month = int(now.Month())
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearRaw))
	if err != nil || year < 2000 || year > 2100 {
		year = now.Year()
	}
	return month, year
}
