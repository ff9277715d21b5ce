package calendar

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// HOLIDAYS - National non-working days
// =============================================================================

// Holiday is one labelled non-working day.
type Holiday struct {
	Date  Date
	Label string
}

const (
	LabelNewYear       = "New Year's Day"
	LabelEpiphany      = "Epiphany"
	LabelEasterSunday  = "Easter Sunday"
	LabelEasterMonday  = "Easter Monday"
	LabelLiberation    = "Liberation Day"
	LabelLabour        = "Labour Day"
	LabelRepublic      = "Republic Day"
	LabelAssumption    = "Assumption Day"
	LabelAllSaints     = "All Saints' Day"
	LabelImmaculate    = "Immaculate Conception"
	LabelChristmas     = "Christmas Day"
	LabelStStephen     = "St. Stephen's Day"
	labelJoinSeparator = " / "
)

var fixedHolidays = []struct {
	month time.Month
	day   int
	label string
}{
	{time.January, 1, LabelNewYear},
	{time.January, 6, LabelEpiphany},
	{time.April, 25, LabelLiberation},
	{time.May, 1, LabelLabour},
	{time.June, 2, LabelRepublic},
	{time.August, 15, LabelAssumption},
	{time.November, 1, LabelAllSaints},
	{time.December, 8, LabelImmaculate},
	{time.December, 25, LabelChristmas},
	{time.December, 26, LabelStStephen},
}

// Holidays returns the twelve holiday entries of a year ordered by date:
// the ten fixed dates plus Easter Sunday and Easter Monday.
// Sundays are not listed; see Calendar.IsNonWorking.
func Holidays(year int) []Holiday {
	out := make([]Holiday, 0, len(fixedHolidays)+2)
	for _, f := range fixedHolidays {
		out = append(out, Holiday{Date: NewDate(year, f.month, f.day), Label: f.label})
	}
	easter := Easter(year)
	out = append(out,
		Holiday{Date: easter, Label: LabelEasterSunday},
		Holiday{Date: easter.AddDays(1), Label: LabelEasterMonday},
	)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// HolidaysForYear returns the holiday map of a year. When two holidays share a
// date (Easter Monday on April 25) both labels are kept, joined in date-list order.
func HolidaysForYear(year int) map[Date]string {
	m := make(map[Date]string, len(fixedHolidays)+2)
	for _, h := range Holidays(year) {
		if existing, ok := m[h.Date]; ok {
			m[h.Date] = existing + labelJoinSeparator + h.Label
			continue
		}
		m[h.Date] = h.Label
	}
	return m
}

// Easter returns Easter Sunday of the Gregorian year. The computus below is
// the anonymous Gregorian algorithm, which yields the same date as Gauss's
// method for every Gregorian year. Integer arithmetic only.
func Easter(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDate(year, time.Month(month), day)
}

// =============================================================================
// CALENDAR - Cached per-year lookups
// =============================================================================

// Calendar answers holiday questions for any date, computing each year once.
// Safe for concurrent use.
type Calendar struct {
	mu    sync.Mutex
	years map[int]map[Date]string
}

func NewCalendar() *Calendar {
	return &Calendar{years: make(map[int]map[Date]string)}
}

func (c *Calendar) year(y int) map[Date]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.years == nil {
		c.years = make(map[int]map[Date]string)
	}
	m, ok := c.years[y]
	if !ok {
		m = HolidaysForYear(y)
		c.years[y] = m
	}
	return m
}

// Holiday returns the holiday label of d, if any. The year is taken from d,
// so spans crossing December-January look up both years.
func (c *Calendar) Holiday(d Date) (string, bool) {
	label, ok := c.year(d.Year)[d]
	return label, ok
}

// IsHoliday reports whether d is a listed holiday.
func (c *Calendar) IsHoliday(d Date) bool {
	_, ok := c.Holiday(d)
	return ok
}

// IsNonWorking reports whether d is a holiday or a Sunday.
func (c *Calendar) IsNonWorking(d Date) bool {
	return d.IsSunday() || c.IsHoliday(d)
}

// Label returns the display label of a non-working day. A holiday label wins
// over Sunday; plain Sundays have no label.
func (c *Calendar) Label(d Date) string {
	label, _ := c.Holiday(d)
	return label
}

// HolidaysIn returns the holidays inside p, in order.
func (c *Calendar) HolidaysIn(p Period) []Holiday {
	var out []Holiday
	for y := p.Start.Year; y <= p.End.Year; y++ {
		for _, h := range Holidays(y) {
			if p.Contains(h.Date) {
				out = append(out, h)
			}
		}
	}
	return out
}

// HasLabel reports whether a possibly joined label contains want.
func HasLabel(label, want string) bool {
	for _, part := range strings.Split(label, labelJoinSeparator) {
		if part == want {
			return true
		}
	}
	return false
}
