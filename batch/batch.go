// Package batch splits time series into calendar windows and reduces every
// window to a series of its own or to a single record.
package batch

import (
	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/cyp0633/libcalseries/internal/interval"
	"github.com/cyp0633/libcalseries/timeseries"
)

// window is the part of one period of the target granularity a batch
// operation looks at. lo and hi delimit the records inside it; lo > hi when
// it holds none.
type window struct {
	period     granularity.Period
	start, end calendar.Date
	lo, hi     int
}

func (w window) empty() bool { return w.lo > w.hi }

// inputGranularity checks that data sampled like ts can be grouped by
// target. A series without granularity counts as daily.
func inputGranularity[T any](ts *timeseries.Series[T], target granularity.Granularity) (granularity.Granularity, error) {
	input := ts.Granularity().OrElse(granularity.Daily)
	cmp, err := granularity.Compare(input, target)
	if err != nil {
		return nil, err
	}
	if cmp > 0 {
		return nil, errs.New(errs.Validation,
			"cannot shrink to a finer granularity than the data: %s data, %s requested", input.Name(), target.Name())
	}
	return input, nil
}

// windows lists one window per period of g from the period holding the first
// day of ts through the period holding its last day.
func windows[T any](ts *timeseries.Series[T], g granularity.Granularity, c config) ([]window, error) {
	if err := c.validateWindow(); err != nil {
		return nil, err
	}
	input, err := inputGranularity(ts, g)
	if err != nil {
		return nil, err
	}
	if ts.IsEmpty() {
		return nil, nil
	}

	days := ts.Days()
	first, last := days[0], days[len(days)-1]

	from := first
	if c.dropTails {
		if from, err = granularity.FirstAvailableBeginning(input, g, first); err != nil {
			return nil, err
		}
	}

	var out []window
	for p := range granularity.Periods(g, from, last) {
		start, err := g.NthDay(p.Start, c.firstDay)
		if err != nil {
			return nil, err
		}
		end, err := g.NthDay(p.Start, c.lastDay)
		if err != nil {
			return nil, err
		}
		if c.dropTails && (start.Before(first) || end.After(last)) {
			continue
		}
		lo, hi := interval.FindDelimiters(days, start, end)
		out = append(out, window{period: p, start: start, end: end, lo: lo, hi: hi})
	}
	return out, nil
}

// Aggregate groups the records of ts by the periods of g and stores
// method applied to the payloads of every non-empty window on the
// WithStoreDay offset of its period. The result has granularity g.
func Aggregate[T, R any](ts *timeseries.Series[T], method func([]T) R, g granularity.Granularity, opts ...Option) (*timeseries.Series[R], error) {
	if method == nil {
		return nil, errs.New(errs.Validation, "aggregation method is required")
	}
	c := newConfig(opts)
	ws, err := windows(ts, g, c)
	if err != nil {
		return nil, err
	}

	var records []timeseries.Record[R]
	for _, w := range ws {
		if w.empty() {
			continue
		}
		store, err := g.NthDay(w.period.Start, c.storeDay)
		if err != nil {
			return nil, err
		}
		payloads := make([]T, 0, w.hi-w.lo+1)
		for i := w.lo; i <= w.hi; i++ {
			payloads = append(payloads, ts.At(i).Data)
		}
		records = append(records, timeseries.NewRecord(store, method(payloads)))
	}

	ts.Logger().Debug("aggregated series",
		"granularity", g.Name(),
		"windows", len(ws),
		"records", len(records))

	return timeseries.New(records, append(ts.Options(), timeseries.WithGranularity(g))...)
}

// Split returns the records of every non-empty window of g as independent
// series, in day order.
func Split[T any](ts *timeseries.Series[T], g granularity.Granularity, opts ...Option) ([]*timeseries.Series[T], error) {
	c := newConfig(opts)
	ws, err := windows(ts, g, c)
	if err != nil {
		return nil, err
	}

	var out []*timeseries.Series[T]
	for _, w := range ws {
		if w.empty() {
			continue
		}
		part, err := ts.Cut(w.start, w.end)
		if err != nil {
			return nil, err
		}
		out = append(out, part)
	}

	ts.Logger().Debug("split series",
		"granularity", g.Name(),
		"windows", len(ws),
		"parts", len(out))

	return out, nil
}
