/*
Package calendar provides the day-level time model of the shift engine.

PURPOSE:
  Shift assignments, leave requests and holidays are all keyed by a
  calendar day with no time component. Converting between time.Time values
  in different locations is the usual source of off-by-one bugs, so every
  boundary goes through DateOf, which keeps the wall-clock day of the value
  in its own location.

KEY CONCEPTS:
  - Date:     comparable calendar day, safe as a map key
  - Week:     Monday..Sunday span used by whole-week planning
  - Period:   inclusive [Start, End] range of dates
  - Holidays: national non-working days for a year (holidays.go)

SEE ALSO:
  - holidays.go: fixed holidays and the Easter computation
  - leave/index.go: uses Date as its index key
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day without a time component
// =============================================================================

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const layoutDate = "2006-01-02"

// NewDate builds a date, normalising out-of-range values the way time.Date does
// (e.g. March 32 becomes April 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the wall-clock day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current day in the local timezone.
func Today() Date { return DateOf(time.Now()) }

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp.
// Timestamps keep the day of their own offset.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(layoutDate, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for fixtures and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

// Comparison
func (d Date) Before(other Date) bool        { return d.compare(other) < 0 }
func (d Date) After(other Date) bool         { return d.compare(other) > 0 }
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return d.compare(other) <= 0 }
func (d Date) AfterOrEqual(other Date) bool  { return d.compare(other) >= 0 }

func (d Date) compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Arithmetic
func (d Date) AddDays(n int) Date { return NewDate(d.Year, d.Month, d.Day+n) }

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsSaturday() bool      { return d.Weekday() == time.Saturday }
func (d Date) IsSunday() bool        { return d.Weekday() == time.Sunday }
func (d Date) IsZero() bool          { return d == Date{} }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes YYYY-MM-DD or an RFC 3339 timestamp.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
