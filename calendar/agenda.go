package calendar

import (
	"time"

	"github.com/cyp0633/libcalseries/errs"
)

func toMonth(m int) time.Month {
	return time.Month(m)
}

// Quarter returns the quarter of the year containing d, in [1, 4].
func Quarter(d Date) int {
	return (int(d.month)-1)/3 + 1
}

// FirstDayOfWeek returns the Monday of the week containing d.
func FirstDayOfWeek(d Date) Date {
	return d.AddDays(-daysSinceMonday(d))
}

// LastDayOfWeek returns the Sunday of the week containing d.
func LastDayOfWeek(d Date) Date {
	return d.AddDays(6 - daysSinceMonday(d))
}

func daysSinceMonday(d Date) int {
	return (int(d.Weekday()) + 6) % 7
}

func FirstDayOfMonth(d Date) Date {
	return Date{year: d.year, month: d.month, day: 1}
}

func LastDayOfMonth(d Date) Date {
	return Date{year: d.year, month: d.month, day: DaysInMonth(d)}
}

func FirstDayOfQuarter(d Date) Date {
	return Date{year: d.year, month: toMonth(3*Quarter(d) - 2), day: 1}
}

func LastDayOfQuarter(d Date) Date {
	// the day before the first day of the next quarter
	return NewDate(d.year, toMonth(3*Quarter(d)+1), 0)
}

func FirstDayOfYear(d Date) Date {
	return Date{year: d.year, month: time.January, day: 1}
}

func LastDayOfYear(d Date) Date {
	return Date{year: d.year, month: time.December, day: 31}
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of the month containing d.
func DaysInMonth(d Date) int {
	return NewDate(d.year, d.month+1, 0).day
}

// DaysInQuarter returns the number of days of the quarter containing d.
func DaysInQuarter(d Date) int {
	return DaysBetween(FirstDayOfQuarter(d), LastDayOfQuarter(d)) + 1
}

// DaysInYear returns the number of days of the year containing d.
func DaysInYear(d Date) int {
	if IsLeapYear(d.year) {
		return 366
	}
	return 365
}

// IsBusinessDay reports whether d is a Monday to Friday that is not one of
// the given holidays.
func IsBusinessDay(d Date, holidays ...Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	for _, h := range holidays {
		if h == d {
			return false
		}
	}
	return true
}

// Steps returns the dates from start to end, both inclusive, moving by step.
// end must not be before start and step must move forward, otherwise the
// walk would never terminate.
func Steps(start, end Date, step Delta) ([]Date, error) {
	if end.Before(start) {
		return nil, errs.New(errs.Validation, "end date %s is before start date %s", end, start)
	}
	if !step.IsPositive() {
		return nil, errs.New(errs.Validation, "step %s does not move forward", step)
	}

	var res []Date
	// Offsets are applied to start rather than chained so that month ends
	// survive short months: Jan 31, Feb 29, Mar 31.
	for i := 0; ; i++ {
		next := Delta{Years: step.Years * i, Months: step.Months * i, Days: step.Days * i}.AddTo(start)
		if next.After(end) {
			break
		}
		res = append(res, next)
	}
	return res, nil
}
