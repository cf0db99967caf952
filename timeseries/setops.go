package timeseries

import (
	"fmt"
	"reflect"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
	"github.com/samber/mo"
)

// ConflictFunc merges the payloads two series hold for the same day. A side
// is None when its series has no record on that day.
type ConflictFunc[T any] func(a, b mo.Option[T]) (T, error)

// TakeFirstAvailable prefers a, then b. A nil pointer, map, slice, channel,
// function or interface payload counts as missing.
func TakeFirstAvailable[T any](a, b mo.Option[T]) (T, error) {
	if v, ok := a.Get(); ok && !isNil(v) {
		return v, nil
	}
	if v, ok := b.Get(); ok && !isNil(v) {
		return v, nil
	}
	var zero T
	return zero, errs.New(errs.Validation, "no payload available on either side")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// merge walks both series in day order and calls visit for every day found
// in either of them.
func merge[T any](a, b *Series[T], visit func(day calendar.Date, x, y mo.Option[T]) error) error {
	i, j := 0, 0
	for i < len(a.records) || j < len(b.records) {
		var (
			day  calendar.Date
			x, y = mo.None[T](), mo.None[T]()
		)
		switch {
		case j == len(b.records) || (i < len(a.records) && a.records[i].Day.Before(b.records[j].Day)):
			day, x = a.records[i].Day, mo.Some(a.records[i].Data)
			i++
		case i == len(a.records) || b.records[j].Day.Before(a.records[i].Day):
			day, y = b.records[j].Day, mo.Some(b.records[j].Data)
			j++
		default:
			day, x, y = a.records[i].Day, mo.Some(a.records[i].Data), mo.Some(b.records[j].Data)
			i++
			j++
		}
		if err := visit(day, x, y); err != nil {
			return err
		}
	}
	return nil
}

func combine[T any](a, b *Series[T], conflict ConflictFunc[T], both bool) (*Series[T], error) {
	if conflict == nil {
		conflict = TakeFirstAvailable[T]
	}
	var out []Record[T]
	err := merge(a, b, func(day calendar.Date, x, y mo.Option[T]) error {
		if both && (x.IsAbsent() || y.IsAbsent()) {
			return nil
		}
		data, err := conflict(x, y)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", day, err)
		}
		out = append(out, Record[T]{Day: day, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a.derive(out, nil)
}

// Union returns a series holding every day of a or b. conflict builds each
// payload; nil means TakeFirstAvailable. The result uses a's settings.
func Union[T any](a, b *Series[T], conflict ConflictFunc[T]) (*Series[T], error) {
	return combine(a, b, conflict, false)
}

// Intersection returns a series holding the days present in both a and b.
func Intersection[T any](a, b *Series[T], conflict ConflictFunc[T]) (*Series[T], error) {
	return combine(a, b, conflict, true)
}
