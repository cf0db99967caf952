package timeseries

import (
	"fmt"

	"github.com/cyp0633/libcalseries/calendar"
)

// Record is one dated observation. Data is owned by the caller; the series
// never inspects it.
type Record[T any] struct {
	Day  calendar.Date
	Data T
}

// NewRecord is shorthand for Record[T]{Day: day, Data: data}.
func NewRecord[T any](day calendar.Date, data T) Record[T] {
	return Record[T]{Day: day, Data: data}
}

func (r Record[T]) String() string {
	return fmt.Sprintf("%s: %v", r.Day, r.Data)
}
