package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/cyp0633/libcalseries/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Basics(t *testing.T) {
	d := NewDate(2020, time.January, 32)
	assert.Equal(t, MustParseDate("2020-02-01"), d)
	assert.Equal(t, "2020-02-01", d.String())
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, 32, d.YearDay())
	assert.False(t, d.IsZero())
	assert.True(t, Date{}.IsZero())

	_, err := ParseDate("2020-13-01")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDate_Compare(t *testing.T) {
	a := MustParseDate("2020-01-31")
	b := MustParseDate("2020-02-01")

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, a, MinDate(a, b))
	assert.Equal(t, b, MaxDate(a, b))
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
}

func TestDate_Text(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-02-29")))
	assert.Equal(t, NewDate(2024, time.February, 29), d)

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", string(b))
}

func TestDelta_AddTo(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		delta Delta
		want  string
	}{
		{"days", "2020-02-28", Days(2), "2020-03-01"},
		{"weeks", "2019-12-30", Weeks(1), "2020-01-06"},
		{"month clamps", "2020-01-31", Months(1), "2020-02-29"},
		{"month clamps non leap", "2021-01-31", Months(1), "2021-02-28"},
		{"year clamps", "2020-02-29", Years(1), "2021-02-28"},
		{"backwards across year", "2020-01-15", Months(-1), "2019-12-15"},
		{"mixed", "2020-01-31", Delta{Months: 1, Days: 1}, "2020-03-01"},
		{"twelve months", "2020-03-01", Months(12), "2021-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseDate(tt.from).Add(tt.delta)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDelta_Ordering(t *testing.T) {
	assert.Equal(t, 1, Days(1).ApproxDays())
	assert.Equal(t, 7, Weeks(1).ApproxDays())
	assert.Equal(t, 30, Months(1).ApproxDays())
	assert.Equal(t, 90, Months(3).ApproxDays())
	assert.Equal(t, 365, Years(1).ApproxDays())

	assert.True(t, Days(1).IsPositive())
	assert.False(t, Delta{}.IsPositive())
	assert.False(t, Delta{Months: 1, Days: -1}.IsPositive())
	assert.Equal(t, Delta{Months: -1}, Months(1).Negate())
	assert.Equal(t, "1y2m3d", Delta{Years: 1, Months: 2, Days: 3}.String())
	assert.Equal(t, "0d", Delta{}.String())
}

func TestBoundaries(t *testing.T) {
	d := MustParseDate("2020-05-14") // Thursday

	tests := []struct {
		name string
		fn   func(Date) Date
		want string
	}{
		{"first day of week", FirstDayOfWeek, "2020-05-11"},
		{"last day of week", LastDayOfWeek, "2020-05-17"},
		{"first day of month", FirstDayOfMonth, "2020-05-01"},
		{"last day of month", LastDayOfMonth, "2020-05-31"},
		{"first day of quarter", FirstDayOfQuarter, "2020-04-01"},
		{"last day of quarter", LastDayOfQuarter, "2020-06-30"},
		{"first day of year", FirstDayOfYear, "2020-01-01"},
		{"last day of year", LastDayOfYear, "2020-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(d).String())
		})
	}

	sunday := MustParseDate("2020-05-17")
	assert.Equal(t, "2020-05-11", FirstDayOfWeek(sunday).String())
	assert.Equal(t, "2020-05-17", LastDayOfWeek(sunday).String())
	assert.Equal(t, "2020-12-31", LastDayOfQuarter(MustParseDate("2020-11-02")).String())
	assert.Equal(t, "2020-03-31", LastDayOfQuarter(MustParseDate("2020-01-01")).String())
}

func TestDayCounts(t *testing.T) {
	assert.Equal(t, 4, Quarter(MustParseDate("2020-12-01")))
	assert.Equal(t, 1, Quarter(MustParseDate("2020-03-31")))

	assert.Equal(t, 29, DaysInMonth(MustParseDate("2020-02-10")))
	assert.Equal(t, 28, DaysInMonth(MustParseDate("2100-02-10")))
	assert.Equal(t, 29, DaysInMonth(MustParseDate("2000-02-10")))

	assert.Equal(t, 91, DaysInQuarter(MustParseDate("2020-02-10")))
	assert.Equal(t, 90, DaysInQuarter(MustParseDate("2021-02-10")))
	assert.Equal(t, 92, DaysInQuarter(MustParseDate("2021-12-10")))

	assert.Equal(t, 366, DaysInYear(MustParseDate("2020-06-01")))
	assert.Equal(t, 365, DaysInYear(MustParseDate("2021-06-01")))
}

func TestIsBusinessDay(t *testing.T) {
	holiday := MustParseDate("2020-12-25")

	assert.True(t, IsBusinessDay(MustParseDate("2020-12-24")))
	assert.False(t, IsBusinessDay(MustParseDate("2020-12-26")))
	assert.False(t, IsBusinessDay(MustParseDate("2020-12-27")))
	assert.True(t, IsBusinessDay(holiday))
	assert.False(t, IsBusinessDay(holiday, holiday))
}

func TestWeekdaysInRange(t *testing.T) {
	days, err := WeekdaysInRange(MustParseDate("2020-04-01"), MustParseDate("2020-04-30"), time.Wednesday)
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, "2020-04-01", days[0].String())
	assert.Equal(t, "2020-04-29", days[4].String())
	for _, d := range days {
		assert.Equal(t, time.Wednesday, d.Weekday())
	}

	days, err = WeekdaysInRange(MustParseDate("2020-04-01"), MustParseDate("2020-04-30"), time.Sunday)
	require.NoError(t, err)
	assert.Len(t, days, 4)

	days, err = WeekdaysInRange(MustParseDate("2020-04-02"), MustParseDate("2020-04-01"), time.Monday)
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = WeekdaysInRange(MustParseDate("2020-04-01"), MustParseDate("2020-04-30"), time.Weekday(9))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSteps(t *testing.T) {
	days, err := Steps(MustParseDate("2020-01-31"), MustParseDate("2020-05-01"), Months(1))
	require.NoError(t, err)
	var got []string
	for _, d := range days {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"2020-01-31", "2020-02-29", "2020-03-31", "2020-04-30"}, got)

	days, err = Steps(MustParseDate("2020-01-01"), MustParseDate("2020-01-01"), Days(1))
	require.NoError(t, err)
	assert.Len(t, days, 1)

	_, err = Steps(MustParseDate("2020-01-02"), MustParseDate("2020-01-01"), Days(1))
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = Steps(MustParseDate("2020-01-01"), MustParseDate("2020-02-01"), Delta{})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

const holidayCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//libcalseries//holidays//EN
BEGIN:VEVENT
UID:christmas@example.com
DTSTAMP:20200101T000000Z
DTSTART;VALUE=DATE:20201225
DTEND;VALUE=DATE:20201227
SUMMARY:Christmas
END:VEVENT
BEGIN:VEVENT
UID:newyear@example.com
DTSTAMP:20200101T000000Z
DTSTART;VALUE=DATE:20210101
SUMMARY:New Year
END:VEVENT
END:VCALENDAR
`

func TestParseHolidays(t *testing.T) {
	days, err := ParseHolidays(strings.NewReader(strings.ReplaceAll(holidayCalendar, "\n", "\r\n")))
	require.NoError(t, err)

	var got []string
	for _, d := range days {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"2020-12-25", "2020-12-26", "2021-01-01"}, got)
	assert.False(t, IsBusinessDay(MustParseDate("2021-01-01"), days...))
	assert.True(t, IsBusinessDay(MustParseDate("2020-12-24"), days...))
}

func TestParseHolidays_Invalid(t *testing.T) {
	_, err := ParseHolidays(strings.NewReader("not a calendar"))
	assert.ErrorIs(t, err, errs.ErrValidation)

	noStart := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//libcalseries//holidays//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:nostart@example.com\r\n" +
		"DTSTAMP:20200101T000000Z\r\n" +
		"SUMMARY:Floating\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	_, err = ParseHolidays(strings.NewReader(noStart))
	assert.ErrorIs(t, err, errs.ErrValidation)
}
