package layout

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// index is the per-call occurrence table: date key -> occurrences in event
// input order, and event ID -> resolved bounds.
type index struct {
	dates  map[string][]*Occurrence
	bounds map[string]*Bounds
}

// expand records one occurrence per local date each event touches inside
// [rangeStart, rangeEnd). The walk starts no earlier than the first day of
// the range and stops at rangeEnd, so its cost follows the range length and
// not the event duration.
func (e *Engine) expand(events []Event, rangeStart, rangeEnd time.Time) (*index, error) {
	idx := &index{
		dates:  make(map[string][]*Occurrence),
		bounds: make(map[string]*Bounds, len(events)),
	}
	seen := make(map[string]struct{}, len(events))
	firstDay := e.cal.StartOfDay(rangeStart)

	for i, ev := range events {
		if ev.ID == "" {
			return nil, fmt.Errorf("%w: event #%d has an empty id", ErrInvalidEvent, i)
		}
		if ev.Start.IsZero() {
			return nil, fmt.Errorf("%w: event %q has no start", ErrInvalidEvent, ev.ID)
		}
		if _, dup := seen[ev.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidEvent, ev.ID)
		}
		seen[ev.ID] = struct{}{}

		dur := time.Duration(max(ev.DurationMinutes, 1)) * time.Minute
		start := ev.Start
		last := start.Add(dur - time.Nanosecond)
		if ev.AllDay {
			start = e.cal.StartOfDay(start)
			last = e.cal.NextDay(last).Add(-time.Nanosecond)
		}
		startDate := e.cal.DateKey(start)
		endDate := e.cal.DateKey(last)
		lastDayEnd := e.cal.NextDay(last)

		cur := start
		if cur.Before(firstDay) {
			cur = firstDay
		}
		for cur.Before(last) && cur.Before(rangeEnd) {
			day := e.cal.StartOfDay(cur)
			date := e.cal.DateKey(day)

			b, ok := idx.bounds[ev.ID]
			if !ok {
				b = &Bounds{StartDate: startDate, EndDate: endDate, Level: NoLevel}
				idx.bounds[ev.ID] = b
			}

			// Span runs to the end of the event or of the week, whichever
			// comes first; a continuing event gets a fresh box next week.
			span := min(wholeDays(day, lastDayEnd), 7-e.cal.DayOfWeek(day))

			idx.dates[date] = append(idx.dates[date], &Occurrence{
				ID:        ev.ID,
				Date:      date,
				StartDate: b.StartDate,
				EndDate:   b.EndDate,
				Level:     NoLevel,
				Span:      span,
				IsStart:   true,
				IsEnd:     true,
				AllDay:    ev.AllDay,
				Event:     ev,
				day:       day,
				start:     ev.Start,
				end:       ev.Start.Add(dur),
			})

			cur = e.cal.NextDay(cur)
		}
	}

	return idx, nil
}

// wholeDays counts local days between two day boundaries from their hour
// difference, which absorbs 23h and 25h days.
func wholeDays(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// byStart orders occurrences by their event's start; equal starts keep
// input order.
func byStart(entries []*Occurrence) {
	slices.SortStableFunc(entries, func(a, b *Occurrence) int {
		return a.start.Compare(b.start)
	})
}

// addDays steps n local days forward from day.
func (e *Engine) addDays(day time.Time, n int) time.Time {
	for ; n > 0; n-- {
		day = e.cal.NextDay(day)
	}
	return day
}
