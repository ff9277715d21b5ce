package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/calendar"
)

func date(year int, month time.Month, day int) calendar.Date {
	return calendar.NewDate(year, month, day)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidays_TwelveEntriesEveryYear(t *testing.T) {
	for year := 1583; year <= 2400; year++ {
		entries := calendar.Holidays(year)
		require.Len(t, entries, 12, "year %d", year)

		var easter calendar.Date
		for _, h := range entries {
			if h.Label == calendar.LabelEasterSunday {
				easter = h.Date
			}
		}
		assert.Equal(t, time.Sunday, easter.Weekday(), "easter %d on %s", year, easter)
	}
}

func TestHolidays_2024Reference(t *testing.T) {
	m := calendar.HolidaysForYear(2024)

	assert.Equal(t, calendar.LabelEasterSunday, m[date(2024, time.March, 31)])
	assert.Equal(t, calendar.LabelEasterMonday, m[date(2024, time.April, 1)])
	assert.Equal(t, calendar.LabelRepublic, m[date(2024, time.June, 2)])
	assert.Equal(t, calendar.LabelStStephen, m[date(2024, time.December, 26)])
	assert.Len(t, m, 12)
}

func TestEaster_KnownYears(t *testing.T) {
	cases := map[int]calendar.Date{
		2000: date(2000, time.April, 23),
		2019: date(2019, time.April, 21),
		2025: date(2025, time.April, 20),
		2038: date(2038, time.April, 25),
		2285: date(2285, time.March, 22),
	}
	for year, want := range cases {
		assert.Equal(t, want, calendar.Easter(year), "year %d", year)
	}
}

func TestHolidaysForYear_CollisionKeepsBothLabels(t *testing.T) {
	// GIVEN: 2011, Easter Monday falls on Liberation Day
	m := calendar.HolidaysForYear(2011)

	label := m[date(2011, time.April, 25)]
	assert.True(t, calendar.HasLabel(label, calendar.LabelLiberation))
	assert.True(t, calendar.HasLabel(label, calendar.LabelEasterMonday))
	assert.Len(t, calendar.Holidays(2011), 12)
}

func TestHolidays_DegenerateYearDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		calendar.Holidays(-44)
		calendar.Holidays(0)
	})
}

func TestCalendar_NonWorkingAndLabels(t *testing.T) {
	cal := calendar.NewCalendar()

	sunday := date(2024, time.June, 9)
	assert.True(t, cal.IsNonWorking(sunday))
	assert.Empty(t, cal.Label(sunday), "plain Sunday has no label")

	// June 2, 2024 is both a Sunday and Republic Day: the holiday label wins
	assert.Equal(t, calendar.LabelRepublic, cal.Label(date(2024, time.June, 2)))

	assert.False(t, cal.IsNonWorking(date(2024, time.June, 10)))
	assert.True(t, cal.IsNonWorking(date(2024, time.August, 15)))
}

func TestCalendar_SpanAcrossYears(t *testing.T) {
	var cal calendar.Calendar
	week := calendar.WeekOf(date(2025, time.December, 31))

	got := cal.HolidaysIn(week)
	require.Len(t, got, 1)
	assert.Equal(t, date(2026, time.January, 1), got[0].Date)
	assert.True(t, cal.IsHoliday(date(2026, time.January, 1)))
}

// =============================================================================
// DATES AND WEEKS
// =============================================================================

func TestDateOf_KeepsWallClockDay(t *testing.T) {
	rome := time.FixedZone("CEST", 2*60*60)
	lateEvening := time.Date(2024, time.June, 14, 23, 30, 0, 0, rome)
	earlyMorning := time.Date(2024, time.June, 10, 0, 15, 0, 0, rome)

	assert.Equal(t, date(2024, time.June, 14), calendar.DateOf(lateEvening))
	assert.Equal(t, date(2024, time.June, 10), calendar.DateOf(earlyMorning))
}

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 10), d)

	d, err = calendar.ParseDate("2024-06-10T00:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 10), d, "offset must not shift the day")

	_, err = calendar.ParseDate("10/06/2024")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	var out struct {
		D calendar.Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-02-29"}`), &out))
	assert.Equal(t, date(2024, time.February, 29), out.D)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-02-29"}`, string(b))
}

func TestWeekOf_MondayToSunday(t *testing.T) {
	week := calendar.WeekOf(date(2024, time.June, 13)) // Thursday

	assert.Equal(t, date(2024, time.June, 10), week.Start)
	assert.Equal(t, date(2024, time.June, 16), week.End)
	assert.Len(t, week.Days(), 7)
	assert.Equal(t, week, calendar.WeekOf(date(2024, time.June, 16)), "Sunday belongs to the same week")
}

func TestDate_Arithmetic(t *testing.T) {
	d := date(2024, time.February, 28)
	assert.Equal(t, date(2024, time.March, 1), d.AddDays(2))
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AfterOrEqual(d))
}

func TestPeriod_Intersect(t *testing.T) {
	a := calendar.Period{Start: date(2024, 6, 1), End: date(2024, 6, 20)}
	b := calendar.Period{Start: date(2024, 6, 10), End: date(2024, 7, 1)}

	got, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, calendar.Period{Start: date(2024, 6, 10), End: date(2024, 6, 20)}, got)

	_, ok = a.Intersect(calendar.Period{Start: date(2024, 8, 1), End: date(2024, 8, 2)})
	assert.False(t, ok)
}
