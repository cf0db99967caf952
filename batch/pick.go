package batch

import (
	"time"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/cyp0633/libcalseries/timeseries"
)

// pick collects, for every period of g spanned by ts, the record on the day
// chosen by choose. Days outside the series are skipped; days inside it
// without a record get the WithDefault payload.
func pick[T any](ts *timeseries.Series[T], g granularity.Granularity, c config, choose func(granularity.Period) (calendar.Date, error)) (*timeseries.Series[T], error) {
	if err := c.validatePick(); err != nil {
		return nil, err
	}
	if _, err := inputGranularity(ts, g); err != nil {
		return nil, err
	}
	def, err := defaultValue[T](c)
	if err != nil {
		return nil, err
	}

	opts := append(ts.Options(), timeseries.WithGranularity(g))
	if ts.IsEmpty() {
		return timeseries.New[T](nil, opts...)
	}

	days := ts.Days()
	first, last := days[0], days[len(days)-1]

	var records []timeseries.Record[T]
	for p := range granularity.Periods(g, first, last) {
		d, err := choose(p)
		if err != nil {
			return nil, err
		}
		if d.Before(first) || d.After(last) {
			continue
		}
		records = append(records, ts.Get(d, def))
	}

	ts.Logger().Debug("picked days",
		"granularity", g.Name(),
		"records", len(records))

	return timeseries.New(records, opts...)
}

// PickADay keeps one record per period of g: the one on the WithDayOfBatch
// offset of the period, by default its last day.
func PickADay[T any](ts *timeseries.Series[T], g granularity.Granularity, opts ...Option) (*timeseries.Series[T], error) {
	c := newConfig(opts)
	return pick(ts, g, c, func(p granularity.Period) (calendar.Date, error) {
		return g.NthDay(p.Start, c.dayOfBatch)
	})
}

// PickAWeekday keeps one record per period of g: the one on the
// WithDayOfBatch-th occurrence of weekday in the period, by default the
// last.
func PickAWeekday[T any](ts *timeseries.Series[T], g granularity.Granularity, weekday time.Weekday, opts ...Option) (*timeseries.Series[T], error) {
	c := newConfig(opts)
	return pick(ts, g, c, func(p granularity.Period) (calendar.Date, error) {
		return g.NthWeekday(p.Start, weekday, c.dayOfBatch)
	})
}
