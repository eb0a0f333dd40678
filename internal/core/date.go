package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical storage and wire format for calendar dates.
	DateLayout = "2006-01-02"

	// MonthKeyLayout identifies a calendar month ("2024-05").
	MonthKeyLayout = "2006-01"
)

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a normalized Date. Out-of-range values roll over the same
// way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current day in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate parses s and panics on failure.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns the date as UTC midnight.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MonthKey returns the YYYY-MM identifier of the date's month.
func (d Date) MonthKey() string {
	return d.Time().Format(MonthKeyLayout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// InMonth reports whether d falls in the given calendar month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

// Validate rejects the zero Date and day/month combinations that do not
// exist on the calendar.
func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if NewDate(d.Year, d.Month, d.Day) != d {
		return &ValidationError{Field: "date", Reason: "no such calendar day"}
	}
	return nil
}

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string; empty and null leave
// the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive calendar interval. A zero bound leaves that
// side open.
type DateRange struct {
	From Date
	To   Date
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}
