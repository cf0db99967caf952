package timeseries

import (
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/cyp0633/libcalseries/internal/interval"
)

// ResampleFunc reduces the payloads of one period to a single payload. It is
// only called for periods holding at least one record.
type ResampleFunc[T any] func([]T) T

type resampleConfig[T any] struct {
	def T
}

// ResampleOption configures Resample.
type ResampleOption[T any] func(*resampleConfig[T])

// WithDefaultData sets the payload stored for days that have nothing to
// carry: empty periods when a method is given, and index days missing from
// the series when it is not. The zero value is used otherwise.
func WithDefaultData[T any](v T) ResampleOption[T] {
	return func(c *resampleConfig[T]) {
		c.def = v
	}
}

// TakeFirst keeps the first payload of the period, or the zero value.
func TakeFirst[T any](data []T) T {
	var zero T
	if len(data) == 0 {
		return zero
	}
	return data[0]
}

// TakeLast keeps the last payload of the period, or the zero value.
func TakeLast[T any](data []T) T {
	var zero T
	if len(data) == 0 {
		return zero
	}
	return data[len(data)-1]
}

func (s *Series[T]) resample(g granularity.Granularity, method ResampleFunc[T], index int, opts []ResampleOption[T]) ([]Record[T], error) {
	var cfg resampleConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(s.records) == 0 {
		return nil, nil
	}

	days := s.Days()
	first, last := days[0], days[len(days)-1]

	var out []Record[T]
	for p := range granularity.Periods(g, first, last) {
		day, err := g.NthDay(p.Start, index)
		if err != nil {
			return nil, err
		}

		if method == nil {
			out = append(out, s.Get(day, cfg.def))
			continue
		}

		data := cfg.def
		if lo, hi := interval.FindDelimiters(days, p.Start, p.End); lo <= hi {
			payloads := make([]T, 0, hi-lo+1)
			for _, r := range s.records[lo : hi+1] {
				payloads = append(payloads, r.Data)
			}
			data = method(payloads)
		}
		out = append(out, Record[T]{Day: day, Data: data})
	}
	return out, nil
}

// Resample returns one record per period of g, from the period holding the
// first day through the period holding the last one, empty periods
// included. Each record is stored on the index-th day of its period and
// carries method applied to the payloads falling in the period. A nil
// method keeps the record already on the index day. Days left without a
// payload get the WithDefaultData value. The result's granularity is g.
func (s *Series[T]) Resample(g granularity.Granularity, method ResampleFunc[T], index int, opts ...ResampleOption[T]) (*Series[T], error) {
	records, err := s.resample(g, method, index, opts)
	if err != nil {
		return nil, err
	}
	return s.derive(records, g)
}

// ResampleInPlace is the in-place variant of Resample.
func (s *Series[T]) ResampleInPlace(g granularity.Granularity, method ResampleFunc[T], index int, opts ...ResampleOption[T]) error {
	records, err := s.resample(g, method, index, opts)
	if err != nil {
		return err
	}
	return s.commit(records, g)
}
