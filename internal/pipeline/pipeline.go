// Package pipeline wires configuration, ICS sources and the layout engine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"callay/internal/config"
	"callay/internal/ics"
	"callay/internal/layout"
	appLog "callay/internal/log"
	"callay/internal/zoned"
)

// Mode selects the layout a run produces.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeDay   Mode = "day"
)

// ErrNoSources is returned when none of the configured ICS files could be read.
var ErrNoSources = errors.New("pipeline: no readable ICS source")

// Runner turns the configured ICS files into layouts.
type Runner struct {
	cfg    *config.Config
	cal    *zoned.Calendar
	engine *layout.Engine
	now    func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock replaces time.Now, which anchors default ranges.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New builds a Runner for cfg.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is nil")
	}
	cal, err := zoned.Load(cfg.Timezone, cfg.WeekStart)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		cfg: cfg,
		cal: cal,
		engine: layout.New(cal,
			layout.WithMaxLevels(cfg.MaxLevels),
			layout.WithMaxEventsPerDay(cfg.MaxEventsPerDay),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Calendar returns the zone stepper layouts are computed on.
func (r *Runner) Calendar() *zoned.Calendar { return r.cal }

// Range resolves a pair of YYYY-MM-DD dates into layout bounds. Both dates
// are inclusive. An empty from means today minus backfill_days, an empty to
// means today plus horizon_days.
func (r *Runner) Range(from, to string) (time.Time, time.Time, error) {
	today := r.cal.StartOfDay(r.now())

	start := r.cal.AddDays(today, -r.cfg.BackfillDays)
	if from != "" {
		d, err := r.cal.ParseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from: %v", layout.ErrInvalidRange, err)
		}
		start = d
	}

	last := r.cal.AddDays(today, r.cfg.HorizonDays)
	if to != "" {
		d, err := r.cal.ParseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to: %v", layout.ErrInvalidRange, err)
		}
		last = d
	}
	if last.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is before %s", layout.ErrInvalidRange, r.cal.DateKey(last), r.cal.DateKey(start))
	}

	// End at the last instant of the final date.
	return start, r.cal.NextDay(last).Add(-time.Nanosecond), nil
}

// Sources lists the configured ICS files.
func (r *Runner) Sources() []ics.Source {
	sources := make([]ics.Source, 0, len(r.cfg.ICS))
	for _, c := range r.cfg.ICS {
		if c.Path == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: c.ID, Path: c.Path})
	}
	return sources
}

// Input is the engine input for one run.
type Input struct {
	Events []layout.Event
	// Digest changes whenever any source file content changes.
	Digest string
}

// Events loads, parses and expands every source into layout events within
// [start, end]. Unreadable or broken sources are logged and skipped.
func (r *Runner) Events(ctx context.Context, start, end time.Time) (Input, error) {
	sources := r.Sources()
	if len(sources) == 0 {
		return Input{Events: []layout.Event{}}, nil
	}

	loaded, loadErrs := ics.LoadAll(ctx, sources)
	if err := ctx.Err(); err != nil {
		return Input{}, err
	}
	if len(loadErrs) > 0 {
		appLog.Error("pipeline: one or more ICS sources failed", errors.Join(loadErrs...), "error_count", len(loadErrs))
	}
	if len(loaded) == 0 {
		return Input{}, fmt.Errorf("%w: %d configured", ErrNoSources, len(sources))
	}

	digests := make([]string, 0, len(loaded))
	parsed := make([]ics.ParsedEvent, 0)
	for _, res := range loaded {
		digests = append(digests, res.Source.ID+"="+res.Digest)
		events, err := ics.ParseICS(res.Source, res.Body, r.cal.Location())
		if err != nil {
			appLog.Error("pipeline: parse failed for source", err, "id", res.Source.ID)
			continue
		}
		parsed = append(parsed, events...)
	}

	expanded, err := ics.ExpandOccurrences(parsed, ics.ExpandConfig{
		DisplayLocation: r.cal.Location(),
		RangeStart:      start,
		RangeEnd:        end,
	})
	if err != nil {
		return Input{}, err
	}

	appLog.Debug("pipeline: events ready",
		"sources", len(loaded),
		"parsed", len(parsed),
		"occurrences", len(expanded.Occurrences),
		"truncated", len(expanded.TruncatedEvents),
	)
	return Input{
		Events: ics.LayoutEvents(expanded.Occurrences, r.cfg.ShowAllDay),
		Digest: strings.Join(digests, ","),
	}, nil
}

// Run produces a snapshot for mode over [start, end].
func (r *Runner) Run(ctx context.Context, mode Mode, start, end time.Time) (*Snapshot, error) {
	in, err := r.Events(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return r.layout(mode, start, end, in.Events)
}

func (r *Runner) layout(mode Mode, start, end time.Time, events []layout.Event) (*Snapshot, error) {
	snap := &Snapshot{
		RangeStart: r.cal.DateKey(start),
		RangeEnd:   r.cal.DateKey(end),
		Timezone:   r.cal.Location().String(),
		WeekStart:  strings.ToLower(r.cal.WeekStart().String()),
	}

	switch mode {
	case ModeMonth:
		weeks, err := r.engine.Month(start, end, events)
		if err != nil {
			return nil, err
		}
		snap.Weeks = weeks
	case ModeDay:
		days, err := r.engine.Day(start, end, events)
		if err != nil {
			return nil, err
		}
		snap.Days = days
	default:
		return nil, fmt.Errorf("pipeline: unknown mode %q", mode)
	}

	appLog.Info("pipeline: layout computed",
		"mode", string(mode),
		"range_start", snap.RangeStart,
		"range_end", snap.RangeEnd,
		"events", len(events),
	)
	return snap, nil
}
