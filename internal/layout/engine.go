package layout

import (
	"fmt"
	"time"
)

// DefaultMaxLevels is the number of month rows scanned for a free level.
const DefaultMaxLevels = 50

// Options tune an Engine.
type Options struct {
	// MaxLevels bounds the level scan in month layouts. Zero means
	// DefaultMaxLevels.
	MaxLevels int

	// MaxEventsPerDay, when positive, drops month boxes whose level is at or
	// above it and counts them in Day.Hidden.
	MaxEventsPerDay int
}

// Option mutates Options.
type Option func(*Options)

func WithMaxLevels(n int) Option {
	return func(o *Options) { o.MaxLevels = n }
}

func WithMaxEventsPerDay(n int) Option {
	return func(o *Options) { o.MaxEventsPerDay = n }
}

// Engine computes month and day layouts on a Calendar.
//
// An Engine holds no per-call state: every Month or Day call builds its own
// index and bounds, so one Engine may be shared between goroutines.
type Engine struct {
	cal  Calendar
	opts Options
}

// New constructs an Engine.
func New(cal Calendar, opts ...Option) *Engine {
	o := Options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.MaxLevels <= 0 {
		o.MaxLevels = DefaultMaxLevels
	}
	if o.MaxEventsPerDay < 0 {
		o.MaxEventsPerDay = 0
	}
	return &Engine{cal: cal, opts: o}
}

// MonthLayout lays out events on a week grid with default options.
func MonthLayout(cal Calendar, start, end time.Time, events []Event) ([]Week, error) {
	return New(cal).Month(start, end, events)
}

// DayLayout lays out events on a day list with default options.
func DayLayout(cal Calendar, start, end time.Time, events []Event) ([]Day, error) {
	return New(cal).Day(start, end, events)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: zero range bound", ErrInvalidRange)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidRange, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}
