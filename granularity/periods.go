package granularity

import (
	"iter"

	"github.com/cyp0633/libcalseries/calendar"
)

// Period is one period of a granularity, both ends inclusive.
type Period struct {
	Start calendar.Date
	End   calendar.Date
}

// Contains reports whether day falls inside the period.
func (p Period) Contains(day calendar.Date) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}

// PeriodOf returns the period of g containing day.
func PeriodOf(g Granularity, day calendar.Date) Period {
	return Period{Start: g.Beginning(day), End: g.End(day)}
}

// Periods yields the consecutive periods of g from the one containing from
// through the one containing to. Periods advance by g's delta and are
// re-anchored on their beginning. Nothing is yielded when to is before from.
func Periods(g Granularity, from, to calendar.Date) iter.Seq[Period] {
	return func(yield func(Period) bool) {
		if to.Before(from) {
			return
		}
		start := g.Beginning(from)
		for !start.After(to) {
			if !yield(Period{Start: start, End: g.End(start)}) {
				return
			}
			next := g.Beginning(start.Add(g.Delta()))
			if !next.After(start) {
				// a delta shorter than the period would stall the walk
				next = g.End(start).AddDays(1)
			}
			start = next
		}
	}
}
