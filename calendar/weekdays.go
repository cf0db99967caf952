package calendar

import (
	"fmt"
	"time"

	"github.com/cyp0633/libcalseries/errs"
	"github.com/teambition/rrule-go"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// WeekdaysInRange returns every occurrence of weekday between start and end,
// both inclusive, in ascending order. An inverted range has no occurrences.
func WeekdaysInRange(start, end Date, weekday time.Weekday) ([]Date, error) {
	wd, ok := rruleWeekdays[weekday]
	if !ok {
		return nil, errs.New(errs.Validation, "invalid weekday %d", weekday)
	}
	if end.Before(start) {
		return nil, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start.Time(),
		Until:     end.Time(),
		Byweekday: []rrule.Weekday{wd},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build weekday rule: %w", err)
	}

	occurrences := rule.All()
	days := make([]Date, 0, len(occurrences))
	for _, occ := range occurrences {
		days = append(days, DateOf(occ.UTC()))
	}
	return days, nil
}
