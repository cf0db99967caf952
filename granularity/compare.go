package granularity

import (
	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
)

// Compare orders two granularities by their delta: -1 when a is finer than
// b, +1 when it is coarser, 0 when they step by the same amount. Deltas that
// do not move strictly forward cannot be ordered.
func Compare(a, b Granularity) (int, error) {
	da, db := a.Delta(), b.Delta()
	if !da.IsPositive() || !db.IsPositive() {
		return 0, errs.New(errs.GranularityMismatch,
			"cannot compare %s (delta %s) with %s (delta %s)", a.Name(), da, b.Name(), db)
	}
	x, y := da.ApproxDays(), db.ApproxDays()
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	default:
		return 0, nil
	}
}

// FirstAvailableBeginning returns the first day of the earliest output
// period that does not start before day. input and output are the
// granularities of the data and of the requested result; when they are
// equal the output period containing day is used as is.
func FirstAvailableBeginning(input, output Granularity, day calendar.Date) (calendar.Date, error) {
	cmp, err := Compare(input, output)
	if err != nil {
		return calendar.Date{}, err
	}

	beg := output.Beginning(day)
	switch {
	case cmp < 0:
		if !beg.Before(day) {
			return beg, nil
		}
		return output.Beginning(beg.Add(output.Delta())), nil
	case cmp == 0:
		return beg, nil
	default:
		return calendar.Date{}, errs.New(errs.GranularityMismatch,
			"cannot derive %s output from %s input without resampling first", output.Name(), input.Name())
	}
}
