package realtimebidding

import (
	"fmt"
	"time"
)

// dateLayout accepts both padded and unpadded month and day
const dateLayout = "2006/1/2"

// FormatDate formats d as YYYY/MM/DD. A nil date formats as the empty string.
func FormatDate(d *Date) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%d/%02d/%02d", d.Year, d.Month, d.Day)
}

// DateTime returns midnight UTC of d
func DateTime(d *Date) time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

// DateFromTime converts the calendar day of t into a Date
func DateFromTime(t time.Time) *Date {
	return &Date{Year: int64(t.Year()), Month: int64(t.Month()), Day: int64(t.Day())}
}

// ParseDate parses a YYYY/M/D date
func ParseDate(s string) (*Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY/MM/DD: %w", s, err)
	}
	return DateFromTime(t), nil
}
