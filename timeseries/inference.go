package timeseries

import (
	"slices"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/cyp0633/libcalseries/internal/interval"
	"github.com/samber/mo"
)

// RankCandidates returns a copy of candidates ordered coarsest first. Equal
// deltas keep their relative order.
func RankCandidates(candidates []granularity.Granularity) ([]granularity.Granularity, error) {
	ranked := slices.Clone(candidates)
	var cmpErr error
	slices.SortStableFunc(ranked, func(a, b granularity.Granularity) int {
		c, err := granularity.Compare(b, a)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return ranked, nil
}

// InferGranularity picks the coarsest candidate whose every period holds at
// most one of days. days must be sorted and free of duplicates. Fewer than
// two days leave the granularity undefined.
func InferGranularity(days []calendar.Date, candidates []granularity.Granularity) (mo.Option[granularity.Granularity], error) {
	if len(days) < 2 {
		return mo.None[granularity.Granularity](), nil
	}
	ranked, err := RankCandidates(candidates)
	if err != nil {
		return mo.None[granularity.Granularity](), err
	}

	first, last := days[0], days[len(days)-1]
	for _, g := range ranked {
		if fits(g, days, first, last) {
			return mo.Some(g), nil
		}
	}
	return mo.None[granularity.Granularity](), errs.New(errs.Inference,
		"no granularity fits the series between %s and %s", first, last)
}

func fits(g granularity.Granularity, days []calendar.Date, first, last calendar.Date) bool {
	for p := range granularity.Periods(g, first, last) {
		lo, hi := interval.FindDelimiters(days, p.Start, p.End)
		if hi-lo+1 > 1 {
			return false
		}
	}
	return true
}
