package batch

import (
	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/granularity"
)

type config struct {
	firstDay   int
	lastDay    int
	dropTails  bool
	storeDay   int
	dayOfBatch int
	def        any
}

func defaultConfig() config {
	return config{
		firstDay:   0,
		lastDay:    granularity.Last,
		storeDay:   0,
		dayOfBatch: granularity.Last,
	}
}

// Option configures a batch operation. Options that do not apply to an
// operation are ignored by it.
type Option func(*config)

// WithFirstDay sets the offset of the first day of every window (default 0).
func WithFirstDay(n int) Option {
	return func(c *config) { c.firstDay = n }
}

// WithLastDay sets the offset of the last day of every window. The default
// granularity.Last closes windows on the last day of their period.
func WithLastDay(n int) Option {
	return func(c *config) { c.lastDay = n }
}

// WithDropTails drops windows reaching outside the series.
func WithDropTails() Option {
	return func(c *config) { c.dropTails = true }
}

// WithStoreDay sets the offset of the day aggregated results are stored on
// (default 0).
func WithStoreDay(n int) Option {
	return func(c *config) { c.storeDay = n }
}

// WithDayOfBatch sets the offset of the day picked from every period. For
// PickAWeekday it counts occurrences of the weekday instead of days.
func WithDayOfBatch(n int) Option {
	return func(c *config) { c.dayOfBatch = n }
}

// WithDefault sets the payload of picked days that hold no record. v must
// have the series' payload type.
func WithDefault(v any) Option {
	return func(c *config) { c.def = v }
}

func newConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) validateWindow() error {
	if c.firstDay < 0 {
		return errs.New(errs.Validation, "first day of batch can't be lesser than 0, got %d", c.firstDay)
	}
	if c.lastDay < granularity.Last || c.lastDay == 0 {
		return errs.New(errs.Validation, "last day of batch can't be lesser than -1 or equal to 0, got %d", c.lastDay)
	}
	if c.lastDay != granularity.Last && c.lastDay < c.firstDay {
		return errs.New(errs.Validation, "last day of batch %d is before first day %d", c.lastDay, c.firstDay)
	}
	if c.storeDay < granularity.Last {
		return errs.New(errs.Validation, "store day of batch can't be lesser than -1, got %d", c.storeDay)
	}
	return nil
}

func (c config) validatePick() error {
	if c.dayOfBatch < granularity.Last {
		return errs.New(errs.Validation, "day of batch can't be lesser than -1, got %d", c.dayOfBatch)
	}
	return nil
}

func defaultValue[T any](c config) (T, error) {
	var zero T
	if c.def == nil {
		return zero, nil
	}
	v, ok := c.def.(T)
	if !ok {
		return zero, errs.New(errs.Validation, "default value has type %T, want %T", c.def, zero)
	}
	return v, nil
}
