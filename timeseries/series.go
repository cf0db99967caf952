// Package timeseries holds date-keyed records ordered by day together with
// the calendar granularity they are sampled at.
package timeseries

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/cyp0633/libcalseries/internal/interval"
	"github.com/cyp0633/libcalseries/query"
	"github.com/samber/mo"
)

// Series is a sequence of records strictly increasing by day. It is not
// safe for concurrent mutation.
type Series[T any] struct {
	records     []Record[T]
	candidates  []granularity.Granularity
	granularity mo.Option[granularity.Granularity]
	logger      *slog.Logger

	// days mirrors records[i].Day; nil means it must be rebuilt
	days []calendar.Date
}

// New builds a series from records in any order. When several records share
// a day the last one wins.
func New[T any](records []Record[T], opts ...Option) (*Series[T], error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Series[T]{
		candidates: cfg.candidates,
		logger:     cfg.logger,
	}
	if err := s.commit(records, cfg.granularity); err != nil {
		return nil, err
	}
	return s, nil
}

// Must is like New but panics on error.
func Must[T any](records []Record[T], opts ...Option) *Series[T] {
	s, err := New(records, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// derive builds a series sharing the receiver's settings.
func (s *Series[T]) derive(records []Record[T], pinned granularity.Granularity) (*Series[T], error) {
	out := &Series[T]{
		candidates: s.candidates,
		logger:     s.logger,
	}
	if err := out.commit(records, pinned); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize sorts records by day and keeps the last record of every day.
// The input slice is not modified.
func normalize[T any](records []Record[T]) []Record[T] {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record[T]) int {
		return a.Day.Compare(b.Day)
	})

	out := sorted[:0]
	for i, r := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Day == r.Day {
			continue
		}
		out = append(out, r)
	}
	return slices.Clip(out)
}

// commit replaces the contents with records once they are sorted and their
// granularity resolved. On error the receiver is unchanged. A nil pinned
// granularity means infer.
func (s *Series[T]) commit(records []Record[T], pinned granularity.Granularity) error {
	next := normalize(records)
	days := make([]calendar.Date, len(next))
	for i, r := range next {
		days[i] = r.Day
	}

	g := mo.None[granularity.Granularity]()
	if pinned != nil {
		g = mo.Some(pinned)
	} else {
		var err error
		g, err = InferGranularity(days, s.candidates)
		if err != nil {
			s.logger.Debug("rejected series contents",
				"records", len(next),
				"error", err)
			return err
		}
	}

	s.records = next
	s.days = days
	s.granularity = g

	if name, ok := granularityName(g); ok {
		s.logger.Debug("series granularity resolved",
			"records", len(next),
			"granularity", name,
			"pinned", pinned != nil)
	}
	return nil
}

func granularityName(g mo.Option[granularity.Granularity]) (string, bool) {
	v, ok := g.Get()
	if !ok {
		return "", false
	}
	return v.Name(), true
}

// Len returns the number of records.
func (s *Series[T]) Len() int { return len(s.records) }

// IsEmpty reports whether the series has no records.
func (s *Series[T]) IsEmpty() bool { return len(s.records) == 0 }

// At returns the i-th record. It panics when i is out of range.
func (s *Series[T]) At(i int) Record[T] { return s.records[i] }

// Records returns a copy of the records.
func (s *Series[T]) Records() []Record[T] { return slices.Clone(s.records) }

// Days returns the ordered days of the series. The slice is shared with the
// series until the next mutation and must not be modified.
func (s *Series[T]) Days() []calendar.Date {
	if s.days == nil && len(s.records) > 0 {
		s.days = make([]calendar.Date, len(s.records))
		for i, r := range s.records {
			s.days[i] = r.Day
		}
	}
	return s.days
}

// Data returns the payloads in day order.
func (s *Series[T]) Data() []T {
	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = r.Data
	}
	return out
}

// All iterates over index and record pairs in day order.
func (s *Series[T]) All() iter.Seq2[int, Record[T]] {
	return func(yield func(int, Record[T]) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Start returns the first day of the series.
func (s *Series[T]) Start() mo.Option[calendar.Date] {
	if len(s.records) == 0 {
		return mo.None[calendar.Date]()
	}
	return mo.Some(s.records[0].Day)
}

// End returns the last day of the series.
func (s *Series[T]) End() mo.Option[calendar.Date] {
	if len(s.records) == 0 {
		return mo.None[calendar.Date]()
	}
	return mo.Some(s.records[len(s.records)-1].Day)
}

// Granularity returns the granularity of the series, None while fewer than
// two records were inferred.
func (s *Series[T]) Granularity() mo.Option[granularity.Granularity] { return s.granularity }

// Candidates returns the granularities tried during inference.
func (s *Series[T]) Candidates() []granularity.Granularity { return slices.Clone(s.candidates) }

// Logger returns the logger of the series.
func (s *Series[T]) Logger() *slog.Logger { return s.logger }

// Options returns the options that reproduce the settings of s, for building
// related series of another payload type.
func (s *Series[T]) Options() []Option {
	return []Option{WithCandidates(s.candidates...), WithLogger(s.logger)}
}

// Lookup returns the record stored at day.
func (s *Series[T]) Lookup(day calendar.Date) mo.Option[Record[T]] {
	i, err := interval.IndexOf(s.Days(), day)
	if err != nil {
		return mo.None[Record[T]]()
	}
	return mo.Some(s.records[i])
}

// Get returns the record stored at day, or a record carrying def when the day
// is missing. The series is never modified.
func (s *Series[T]) Get(day calendar.Date, def T) Record[T] {
	return s.Lookup(day).OrElse(Record[T]{Day: day, Data: def})
}

// Append inserts r, replacing any record on the same day.
func (s *Series[T]) Append(r Record[T]) error {
	next := make([]Record[T], 0, len(s.records)+1)
	next = append(next, s.records...)
	return s.commit(append(next, r), nil)
}

// Update upserts every record. Later records win over earlier ones on the
// same day.
func (s *Series[T]) Update(records ...Record[T]) error {
	next := make([]Record[T], 0, len(s.records)+len(records))
	next = append(next, s.records...)
	return s.commit(append(next, records...), nil)
}

// Delete removes the record stored at day.
func (s *Series[T]) Delete(day calendar.Date) error {
	i, err := interval.IndexOf(s.Days(), day)
	if err != nil {
		return err
	}
	return s.commit(slices.Delete(slices.Clone(s.records), i, i+1), nil)
}

func (s *Series[T]) window(min, max calendar.Date) ([]Record[T], error) {
	if max.Before(min) {
		return nil, errs.New(errs.Validation, "cut bounds inverted: %s is before %s", max, min)
	}
	lo, hi := interval.FindDelimiters(s.Days(), min, max)
	if lo > hi {
		return nil, nil
	}
	return slices.Clone(s.records[lo : hi+1]), nil
}

// Cut returns a copy restricted to min <= day <= max.
func (s *Series[T]) Cut(min, max calendar.Date) (*Series[T], error) {
	records, err := s.window(min, max)
	if err != nil {
		return nil, err
	}
	return s.derive(records, nil)
}

// CutInPlace restricts the series to min <= day <= max.
func (s *Series[T]) CutInPlace(min, max calendar.Date) error {
	records, err := s.window(min, max)
	if err != nil {
		return err
	}
	return s.commit(records, nil)
}

func (s *Series[T]) keep(pred func(Record[T]) bool) []Record[T] {
	var out []Record[T]
	for _, r := range s.records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Filter returns a copy holding the records for which pred is true.
func (s *Series[T]) Filter(pred func(Record[T]) bool) (*Series[T], error) {
	return s.derive(s.keep(pred), nil)
}

// BusinessDays returns a copy holding only records on weekdays that are not
// in holidays.
func (s *Series[T]) BusinessDays(holidays ...calendar.Date) (*Series[T], error) {
	return s.Filter(func(r Record[T]) bool {
		return calendar.IsBusinessDay(r.Day, holidays...)
	})
}

// Query returns a copy holding the records whose day matches the filter
// expression q, e.g. "month == 4 and day < 15".
func (s *Series[T]) Query(q string) (*Series[T], error) {
	expr, err := query.Compile(q)
	if err != nil {
		return nil, err
	}
	return s.Filter(func(r Record[T]) bool { return expr.Match(r.Day) })
}

// QueryInPlace drops the records whose day does not match q.
func (s *Series[T]) QueryInPlace(q string) error {
	expr, err := query.Compile(q)
	if err != nil {
		return err
	}
	return s.commit(s.keep(func(r Record[T]) bool { return expr.Match(r.Day) }), nil)
}

// Clone returns an independent copy. Payloads are copied by assignment.
func (s *Series[T]) Clone() *Series[T] {
	return s.CloneWith(nil)
}

// CloneWith returns an independent copy whose payloads are produced by fn,
// which lets callers deep-copy reference payloads. A nil fn copies by
// assignment.
func (s *Series[T]) CloneWith(fn func(T) T) *Series[T] {
	records := slices.Clone(s.records)
	if fn != nil {
		for i := range records {
			records[i].Data = fn(records[i].Data)
		}
	}
	return &Series[T]{
		records:     records,
		candidates:  slices.Clone(s.candidates),
		granularity: s.granularity,
		logger:      s.logger,
		days:        slices.Clone(s.days),
	}
}
