package granularity

import (
	"time"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
)

// Built-in granularities. Weeks run Monday to Sunday.
var (
	Daily     Granularity = daily{}
	Weekly                = New("weekly", calendar.Weeks(1), calendar.FirstDayOfWeek, calendar.LastDayOfWeek)
	Monthly               = New("monthly", calendar.Months(1), calendar.FirstDayOfMonth, calendar.LastDayOfMonth)
	Quarterly             = New("quarterly", calendar.Months(3), calendar.FirstDayOfQuarter, calendar.LastDayOfQuarter)
	Yearly                = New("yearly", calendar.Years(1), calendar.FirstDayOfYear, calendar.LastDayOfYear)
)

// Defaults returns the built-in granularities ranked coarsest first, the
// usual candidate list for inference.
func Defaults() []Granularity {
	return []Granularity{Yearly, Quarterly, Monthly, Weekly, Daily}
}

// daily has one-day periods, so there is nothing to address inside them.
type daily struct{}

func (daily) Name() string                              { return "daily" }
func (daily) String() string                            { return "daily" }
func (daily) Delta() calendar.Delta                     { return calendar.Days(1) }
func (daily) Beginning(day calendar.Date) calendar.Date { return day }
func (daily) End(day calendar.Date) calendar.Date       { return day }
func (daily) Len(calendar.Date) int                     { return 1 }

// AssertIncluded accepts the first and the last day of the period, which are
// both the day itself.
func (daily) AssertIncluded(day calendar.Date, idx int) error {
	if idx != 0 && idx != Last {
		return errs.New(errs.Unsupported, "offset %d on daily granularity: days have no sub-periods", idx)
	}
	return nil
}

func (g daily) NthDay(day calendar.Date, idx int) (calendar.Date, error) {
	if err := g.AssertIncluded(day, idx); err != nil {
		return calendar.Date{}, err
	}
	return day, nil
}

func (daily) NthWeekday(calendar.Date, time.Weekday, int) (calendar.Date, error) {
	return calendar.Date{}, errs.New(errs.Unsupported, "weekday addressing on daily granularity")
}
