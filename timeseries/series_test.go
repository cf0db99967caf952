package timeseries

import (
	"testing"
	"time"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = calendar.MustParseDate

// generate builds a series stepping from..to by step; payloads count from 1.
func generate(t *testing.T, from, to string, step calendar.Delta, opts ...Option) *Series[int] {
	t.Helper()
	days, err := calendar.Steps(day(from), day(to), step)
	require.NoError(t, err)

	records := make([]Record[int], len(days))
	for i, d := range days {
		records[i] = NewRecord(d, i+1)
	}
	s, err := New(records, opts...)
	require.NoError(t, err)
	return s
}

func assertSorted[T any](t *testing.T, s *Series[T]) {
	t.Helper()
	days := s.Days()
	require.Len(t, days, s.Len())
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i-1].Before(days[i]), "%s should precede %s", days[i-1], days[i])
	}
	for i, r := range s.All() {
		assert.Equal(t, days[i], r.Day)
	}
}

func gran[T any](t *testing.T, s *Series[T]) granularity.Granularity {
	t.Helper()
	g, ok := s.Granularity().Get()
	require.True(t, ok, "granularity should be defined")
	return g
}

func TestNew(t *testing.T) {
	s, err := New([]Record[string]{
		NewRecord(day("2020-01-03"), "c"),
		NewRecord(day("2020-01-01"), "a"),
		NewRecord(day("2020-01-02"), "b"),
		NewRecord(day("2020-01-01"), "A"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assertSorted(t, s)
	assert.Equal(t, []string{"A", "b", "c"}, s.Data())
	assert.Equal(t, granularity.Daily, gran(t, s))
	assert.Equal(t, day("2020-01-01"), s.Start().MustGet())
	assert.Equal(t, day("2020-01-03"), s.End().MustGet())

	empty, err := New[string](nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.Start().IsAbsent())
	assert.True(t, empty.Granularity().IsAbsent())
	assert.Empty(t, empty.Days())

	single, err := New([]Record[int]{NewRecord(day("2020-01-01"), 1)})
	require.NoError(t, err)
	assert.True(t, single.Granularity().IsAbsent())

	pinned, err := New([]Record[int]{NewRecord(day("2020-01-01"), 1)}, WithGranularity(granularity.Monthly))
	require.NoError(t, err)
	assert.Equal(t, granularity.Monthly, gran(t, pinned))

	assert.Panics(t, func() {
		Must([]Record[int]{
			NewRecord(day("2020-01-01"), 1),
			NewRecord(day("2020-01-02"), 2),
		}, WithCandidates(granularity.Monthly))
	})
}

func TestInference(t *testing.T) {
	irregular, err := New([]Record[int]{
		NewRecord(day("2020-01-31"), 1),
		NewRecord(day("2020-02-01"), 2),
		NewRecord(day("2020-03-15"), 3),
		NewRecord(day("2020-04-01"), 4),
	})
	require.NoError(t, err)
	assert.Equal(t, granularity.Monthly, gran(t, irregular))

	tests := []struct {
		name string
		step calendar.Delta
		opts []Option
		want granularity.Granularity
	}{
		{"daily", calendar.Days(1), nil, granularity.Daily},
		{"weekly", calendar.Weeks(1), nil, granularity.Weekly},
		{"monthly", calendar.Months(1), nil, granularity.Monthly},
		{"quarterly", calendar.Months(3), nil, granularity.Quarterly},
		{"yearly", calendar.Years(1), nil, granularity.Yearly},
		{"monthly without monthly candidate", calendar.Months(1),
			[]Option{WithCandidates(granularity.Yearly, granularity.Quarterly, granularity.Weekly, granularity.Daily)},
			granularity.Weekly},
		{"unordered candidates", calendar.Months(1),
			[]Option{WithCandidates(granularity.Daily, granularity.Monthly, granularity.Yearly)},
			granularity.Monthly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := generate(t, "2020-01-01", "2024-12-31", tt.step, tt.opts...)
			assert.Equal(t, tt.want, gran(t, s))
		})
	}

	monthly := generate(t, "2020-01-01", "2021-01-01", calendar.Months(1))
	require.NoError(t, monthly.Append(NewRecord(day("2021-01-02"), 99)))
	assert.Equal(t, granularity.Daily, gran(t, monthly))
}

func TestInferenceCustom(t *testing.T) {
	beginning := func(d calendar.Date) calendar.Date {
		return calendar.NewDate(d.Year()-d.Year()%2, time.January, 1)
	}
	end := func(d calendar.Date) calendar.Date {
		return calendar.NewDate(d.Year()-d.Year()%2+1, time.December, 31)
	}
	biennial := granularity.New("biennial", calendar.Years(2), beginning, end)

	s, err := New([]Record[int]{
		NewRecord(day("2020-01-01"), 1),
		NewRecord(day("2022-06-01"), 2),
		NewRecord(day("2024-03-01"), 3),
	}, WithCandidates(granularity.Daily, biennial, granularity.Yearly))
	require.NoError(t, err)
	assert.Equal(t, "biennial", gran(t, s).Name())

	_, err = InferGranularity([]calendar.Date{day("2020-01-01"), day("2020-01-02")},
		[]granularity.Granularity{granularity.Monthly, granularity.Yearly})
	assert.ErrorIs(t, err, errs.ErrInference)

	broken := granularity.New("broken", calendar.Delta{}, calendar.FirstDayOfMonth, calendar.LastDayOfMonth)
	_, err = RankCandidates([]granularity.Granularity{granularity.Monthly, broken})
	assert.ErrorIs(t, err, errs.ErrGranularityMismatch)

	ranked, err := RankCandidates([]granularity.Granularity{granularity.Daily, granularity.Yearly, granularity.Weekly})
	require.NoError(t, err)
	assert.Equal(t, []granularity.Granularity{granularity.Yearly, granularity.Weekly, granularity.Daily}, ranked)
}

func TestAppendUpdateDelete(t *testing.T) {
	s := generate(t, "2020-01-01", "2020-01-10", calendar.Days(1))

	// upsert keeps length
	require.NoError(t, s.Append(NewRecord(day("2020-01-05"), 50)))
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 50, s.Get(day("2020-01-05"), 0).Data)

	require.NoError(t, s.Append(NewRecord(day("2019-12-31"), 0)))
	assert.Equal(t, 11, s.Len())
	assertSorted(t, s)
	assert.Equal(t, day("2019-12-31"), s.At(0).Day)

	require.NoError(t, s.Update(
		NewRecord(day("2020-01-20"), 20),
		NewRecord(day("2020-01-20"), 21),
		NewRecord(day("2020-01-01"), 100),
	))
	assert.Equal(t, 12, s.Len())
	assert.Equal(t, 21, s.Get(day("2020-01-20"), 0).Data)
	assert.Equal(t, 100, s.Get(day("2020-01-01"), 0).Data)
	assertSorted(t, s)

	require.NoError(t, s.Delete(day("2020-01-20")))
	assert.Equal(t, 11, s.Len())
	assert.True(t, s.Lookup(day("2020-01-20")).IsAbsent())

	err := s.Delete(day("2020-01-20"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, 11, s.Len())
}

func TestMutationIsAllOrNothing(t *testing.T) {
	s := generate(t, "2020-01-01", "2020-06-01", calendar.Months(1), WithCandidates(granularity.Monthly))
	before := s.Records()

	err := s.Append(NewRecord(day("2020-03-15"), 99))
	assert.ErrorIs(t, err, errs.ErrInference)
	assert.Equal(t, before, s.Records())
	assert.Equal(t, granularity.Monthly, gran(t, s))
	assertSorted(t, s)

	err = s.Update(NewRecord(day("2020-07-01"), 7), NewRecord(day("2020-07-02"), 8))
	assert.ErrorIs(t, err, errs.ErrInference)
	assert.Equal(t, before, s.Records())
}

func TestGet(t *testing.T) {
	s := generate(t, "2020-01-01", "2020-01-10", calendar.Days(2))

	r := s.Get(day("2020-01-03"), -1)
	assert.Equal(t, 2, r.Data)

	missing := s.Get(day("2020-01-04"), -1)
	assert.Equal(t, day("2020-01-04"), missing.Day)
	assert.Equal(t, -1, missing.Data)
	assert.Equal(t, 5, s.Len(), "Get must not insert")

	assert.Equal(t, 2, s.Lookup(day("2020-01-03")).MustGet().Data)
	assert.True(t, s.Lookup(day("2020-01-04")).IsAbsent())
}

func TestCut(t *testing.T) {
	s := generate(t, "2020-01-01", "2020-12-31", calendar.Days(1))

	cut, err := s.Cut(day("2020-03-01"), day("2020-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 31, cut.Len())
	assert.Equal(t, day("2020-03-01"), cut.Start().MustGet())
	assert.Equal(t, 366, s.Len(), "Cut must not modify the receiver")

	empty, err := s.Cut(day("2021-01-01"), day("2021-02-01"))
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = s.Cut(day("2020-03-31"), day("2020-03-01"))
	assert.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, s.CutInPlace(day("2019-12-01"), day("2020-01-15")))
	assert.Equal(t, 15, s.Len())
	assert.Equal(t, day("2020-01-15"), s.End().MustGet())

	assert.ErrorIs(t, s.CutInPlace(day("2020-01-15"), day("2020-01-01")), errs.ErrValidation)
	assert.Equal(t, 15, s.Len())
}

func TestFilters(t *testing.T) {
	s := generate(t, "2020-01-01", "2022-12-31", calendar.Days(1))

	q, err := s.Query("month > 10")
	require.NoError(t, err)
	require.False(t, q.IsEmpty())
	for _, r := range q.All() {
		assert.Greater(t, r.Day.Month(), time.October)
	}
	assert.Equal(t, 3*61, q.Len())

	_, err = s.Query("bad_req")
	assert.ErrorIs(t, err, errs.ErrQuery)

	inplace := s.Clone()
	require.NoError(t, inplace.QueryInPlace("8 < month < 10 and day == 1"))
	assert.Equal(t, 3, inplace.Len())
	assert.Equal(t, granularity.Yearly, gran(t, inplace))
	assert.ErrorIs(t, inplace.QueryInPlace("or"), errs.ErrQuery)
	assert.Equal(t, 3, inplace.Len())

	even, err := s.Filter(func(r Record[int]) bool { return r.Data%2 == 0 })
	require.NoError(t, err)
	assert.Equal(t, s.Len()/2, even.Len())

	week := generate(t, "2020-12-21", "2020-12-27", calendar.Days(1))
	bd, err := week.BusinessDays(day("2020-12-25"))
	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{
		day("2020-12-21"), day("2020-12-22"), day("2020-12-23"), day("2020-12-24"),
	}, bd.Days())
}

func TestClone(t *testing.T) {
	s, err := New([]Record[[]int]{
		NewRecord(day("2020-01-01"), []int{1}),
		NewRecord(day("2020-01-02"), []int{2}),
	})
	require.NoError(t, err)

	shallow := s.Clone()
	require.NoError(t, shallow.Append(NewRecord(day("2020-01-03"), []int{3})))
	assert.Equal(t, 2, s.Len())
	shallow.At(0).Data[0] = 10
	assert.Equal(t, 10, s.At(0).Data[0], "payloads are shared by a plain clone")

	deep := s.CloneWith(func(v []int) []int { return append([]int(nil), v...) })
	deep.At(0).Data[0] = 42
	assert.Equal(t, 10, s.At(0).Data[0])
	assert.Equal(t, s.Granularity(), deep.Granularity())
	assert.Equal(t, s.Candidates(), deep.Candidates())
}

func TestResample(t *testing.T) {
	s := generate(t, "2020-01-01", "2020-04-01", calendar.Months(1))

	res, err := s.Resample(granularity.Weekly, TakeFirst[int], 0)
	require.NoError(t, err)

	want, err := calendar.Steps(day("2019-12-30"), day("2020-03-30"), calendar.Weeks(1))
	require.NoError(t, err)
	assert.Equal(t, want, res.Days())
	assert.Equal(t, 14, res.Len())
	assert.Equal(t, s.At(0).Data, res.At(0).Data)
	assert.Zero(t, res.At(1).Data)
	assert.Equal(t, granularity.Weekly, gran(t, res))
	assert.Equal(t, 4, s.Len(), "Resample must not modify the receiver")

	none, err := s.Resample(granularity.Weekly, nil, 0)
	require.NoError(t, err)
	for _, r := range none.All() {
		assert.Zero(t, r.Data)
	}

	daily := generate(t, "2020-01-01", "2020-03-31", calendar.Days(1))
	require.NoError(t, daily.ResampleInPlace(granularity.Monthly, TakeLast[int], granularity.Last))
	assert.Equal(t, []calendar.Date{day("2020-01-31"), day("2020-02-29"), day("2020-03-31")}, daily.Days())
	assert.Equal(t, []int{31, 60, 91}, daily.Data())
	assert.Equal(t, granularity.Monthly, gran(t, daily))

	sum := func(v []int) int {
		total := 0
		for _, x := range v {
			total += x
		}
		return total
	}
	yearly, err := generate(t, "2020-01-01", "2020-12-31", calendar.Months(1)).Resample(granularity.Yearly, sum, 0)
	require.NoError(t, err)
	require.Equal(t, 1, yearly.Len())
	assert.Equal(t, 78, yearly.At(0).Data)

	_, err = s.Resample(granularity.Monthly, nil, 30)
	assert.ErrorIs(t, err, errs.ErrValidation)

	empty, err := New[int](nil)
	require.NoError(t, err)
	out, err := empty.Resample(granularity.Monthly, TakeFirst[int], 0)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestResampleDefaultData(t *testing.T) {
	s := generate(t, "2020-01-01", "2020-04-01", calendar.Months(1))

	// without a method the record on the index day is kept
	kept, err := s.Resample(granularity.Monthly, nil, 0, WithDefaultData(-1))
	require.NoError(t, err)
	assert.Equal(t, s.Days(), kept.Days())
	assert.Equal(t, []int{1, 2, 3, 4}, kept.Data())

	ends, err := s.Resample(granularity.Monthly, nil, granularity.Last, WithDefaultData(-1))
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -1, -1, -1}, ends.Data())

	// with a method only empty periods get the default
	weekly, err := s.Resample(granularity.Weekly, TakeFirst[int], 0, WithDefaultData(-1))
	require.NoError(t, err)
	require.Equal(t, 14, weekly.Len())
	assert.Equal(t, 1, weekly.At(0).Data)
	assert.Equal(t, -1, weekly.At(1).Data)
	assert.Equal(t, 2, weekly.At(4).Data, "2020-02-01 falls in the week of 2020-01-27")

	calls := 0
	count := func(v []int) int {
		calls++
		return len(v)
	}
	_, err = s.Resample(granularity.Weekly, count, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, calls, "method runs for non-empty periods only")

	require.NoError(t, s.ResampleInPlace(granularity.Weekly, nil, 0, WithDefaultData(9)))
	assert.Equal(t, 14, s.Len())
	for _, r := range s.All() {
		assert.Equal(t, 9, r.Data)
	}
}
