// Package granularity describes calendar periods (days, weeks, months,
// quarters, years or user-defined units) and how to address days inside
// them.
package granularity

import (
	"time"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
)

// Last is the offset sentinel addressing the last day of a period. It is not
// a generic negative index: -2 and below are rejected.
const Last = -1

// Granularity is a period unit. Implementations are stateless; every
// operation takes any day inside the period of interest.
type Granularity interface {
	// Name identifies the granularity in logs and errors.
	Name() string
	// Delta is the step from one period start to the next.
	Delta() calendar.Delta
	// Beginning returns the first day of the period containing day.
	Beginning(day calendar.Date) calendar.Date
	// End returns the last day of the period containing day.
	End(day calendar.Date) calendar.Date
	// Len returns the number of days of the period containing day.
	Len(day calendar.Date) int
	// NthDay returns the idx-th day (0-indexed) of the period containing
	// day, or its last day when idx is Last.
	NthDay(day calendar.Date, idx int) (calendar.Date, error)
	// NthWeekday returns the idx-th occurrence (0-indexed, Last for the last
	// one) of weekday inside the period containing day.
	NthWeekday(day calendar.Date, weekday time.Weekday, idx int) (calendar.Date, error)
	// AssertIncluded checks that idx addresses a day of the period
	// containing day.
	AssertIncluded(day calendar.Date, idx int) error
}

// Func computes a period boundary from any day inside the period.
type Func func(calendar.Date) calendar.Date

// periodic implements Granularity for every unit whose periods span more
// than one day. Offsets are resolved against its boundary functions.
type periodic struct {
	name      string
	delta     calendar.Delta
	beginning Func
	end       Func
}

// New builds a user-defined granularity from its step and its boundary
// functions. beginning and end must agree: for every day d,
// beginning(d) <= d <= end(d), and beginning(d).Add(delta) must fall in the
// next period.
func New(name string, delta calendar.Delta, beginning, end Func) Granularity {
	return &periodic{name: name, delta: delta, beginning: beginning, end: end}
}

func (p *periodic) Name() string                              { return p.name }
func (p *periodic) Delta() calendar.Delta                     { return p.delta }
func (p *periodic) Beginning(day calendar.Date) calendar.Date { return p.beginning(day) }
func (p *periodic) End(day calendar.Date) calendar.Date       { return p.end(day) }
func (p *periodic) String() string                            { return p.name }

func (p *periodic) Len(day calendar.Date) int {
	return calendar.DaysBetween(p.beginning(day), p.end(day)) + 1
}

func (p *periodic) AssertIncluded(day calendar.Date, idx int) error {
	if n := p.Len(day); idx < Last || idx >= n {
		return errs.New(errs.Validation,
			"offset %d exceeds period length: %s period of %s has %d days", idx, p.name, day, n)
	}
	return nil
}

func (p *periodic) NthDay(day calendar.Date, idx int) (calendar.Date, error) {
	if err := p.AssertIncluded(day, idx); err != nil {
		return calendar.Date{}, err
	}
	if idx == Last {
		return p.end(day), nil
	}
	return p.beginning(day).AddDays(idx), nil
}

func (p *periodic) NthWeekday(day calendar.Date, weekday time.Weekday, idx int) (calendar.Date, error) {
	days, err := calendar.WeekdaysInRange(p.beginning(day), p.end(day), weekday)
	if err != nil {
		return calendar.Date{}, err
	}
	if len(days) == 0 || idx < Last || idx >= len(days) {
		return calendar.Date{}, errs.New(errs.Validation,
			"weekday offset %d out of range: %s period of %s has %d %ss", idx, p.name, day, len(days), weekday)
	}
	if idx == Last {
		return days[len(days)-1], nil
	}
	return days[idx], nil
}
