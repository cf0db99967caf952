package calendar

import (
	"fmt"
	"strings"
)

// Delta is a relative calendar step. Years and months are applied first,
// clamping the day to the last day of the resulting month (2020-01-31 plus
// one month is 2020-02-29), then Days are added.
type Delta struct {
	Years  int
	Months int
	Days   int
}

// Days returns a step of n days.
func Days(n int) Delta { return Delta{Days: n} }

// Weeks returns a step of n weeks.
func Weeks(n int) Delta { return Delta{Days: 7 * n} }

// Months returns a step of n months.
func Months(n int) Delta { return Delta{Months: n} }

// Years returns a step of n years.
func Years(n int) Delta { return Delta{Years: n} }

// AddTo returns d shifted by the delta.
func (dl Delta) AddTo(d Date) Date {
	if dl.Years != 0 || dl.Months != 0 {
		months := int(d.month) - 1 + dl.Months + 12*dl.Years
		year := d.year + floorDiv(months, 12)
		month := floorMod(months, 12) + 1
		first := NewDate(year, toMonth(month), 1)
		day := d.day
		if last := DaysInMonth(first); day > last {
			day = last
		}
		d = NewDate(year, toMonth(month), day)
	}
	if dl.Days != 0 {
		d = d.AddDays(dl.Days)
	}
	return d
}

// Negate returns the opposite step.
func (dl Delta) Negate() Delta {
	return Delta{Years: -dl.Years, Months: -dl.Months, Days: -dl.Days}
}

// ApproxDays returns the rounded length of the step in days, counting a
// year as 365 days and a month as 30 days. It is only meant for ordering
// steps of different units.
func (dl Delta) ApproxDays() int {
	return dl.Years*365 + dl.Months*30 + dl.Days
}

// IsPositive reports whether the step moves strictly forward: no component
// is negative and at least one is positive.
func (dl Delta) IsPositive() bool {
	if dl.Years < 0 || dl.Months < 0 || dl.Days < 0 {
		return false
	}
	return dl.Years > 0 || dl.Months > 0 || dl.Days > 0
}

func (dl Delta) String() string {
	var parts []string
	if dl.Years != 0 {
		parts = append(parts, fmt.Sprintf("%dy", dl.Years))
	}
	if dl.Months != 0 {
		parts = append(parts, fmt.Sprintf("%dm", dl.Months))
	}
	if dl.Days != 0 {
		parts = append(parts, fmt.Sprintf("%dd", dl.Days))
	}
	if len(parts) == 0 {
		return "0d"
	}
	return strings.Join(parts, "")
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
