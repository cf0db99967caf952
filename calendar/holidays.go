package calendar

import (
	"errors"
	"io"
	"sort"
	"time"

	"github.com/cyp0633/libcalseries/errs"
	"github.com/emersion/go-ical"
)

// ParseHolidays reads an iCalendar stream and returns every day covered by
// its VEVENT components, sorted and without duplicates. DTEND is exclusive,
// as for all-day events; an event without DTEND covers its start day only.
//
// The result is meant to be passed to IsBusinessDay.
func ParseHolidays(r io.Reader) ([]Date, error) {
	dec := ical.NewDecoder(r)
	seen := make(map[Date]struct{})

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.Validation, err, "failed to decode holiday calendar")
		}

		for _, event := range cal.Events() {
			start, end, err := holidaySpan(event.Component)
			if err != nil {
				return nil, err
			}
			for d := start; d.Before(end); d = d.AddDays(1) {
				seen[d] = struct{}{}
			}
		}
	}

	days := make([]Date, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// holidaySpan returns the half-open day range [start, end) of an event.
func holidaySpan(comp *ical.Component) (start, end Date, err error) {
	if comp.Props.Get(ical.PropDateTimeStart) == nil {
		return Date{}, Date{}, errs.New(errs.Validation, "holiday event without %s", ical.PropDateTimeStart)
	}
	dtstart, err := comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return Date{}, Date{}, errs.Wrap(errs.Validation, err, "invalid holiday start")
	}
	start = DateOf(dtstart)
	end = start.AddDays(1)

	if comp.Props.Get(ical.PropDateTimeEnd) != nil {
		dtend, err := comp.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
		if err != nil {
			return Date{}, Date{}, errs.Wrap(errs.Validation, err, "invalid holiday end")
		}
		// a zero-length or inverted event still blocks its start day
		if e := DateOf(dtend); e.After(start) {
			end = e
		}
	}
	return start, end, nil
}
