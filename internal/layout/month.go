package layout

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Month lays out events on a week grid covering start..end.
//
// Each event keeps one level (row) for the whole call and produces exactly
// one visible box per week it touches: on the day it starts, or on the first
// visible day of a week it continues through. The box's Span covers the rest
// of that week or of the event, whichever ends first.
func (e *Engine) Month(start, end time.Time, events []Event) ([]Week, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	weeks := e.buildWeeks(start, end)
	idx, err := e.expand(events, start, end)
	if err != nil {
		return nil, err
	}
	firstDate := e.cal.DateKey(start)

	for wi := range weeks {
		week := &weeks[wi]
		for di := range week.Days {
			day := &week.Days[di]
			entries := idx.dates[day.Date]
			if len(entries) == 0 {
				continue
			}
			byStart(entries)

			used := make([]bool, e.opts.MaxLevels)
			visible := make([]*Occurrence, 0, len(entries))
			for _, occ := range entries {
				b := idx.bounds[occ.ID]

				// A continuing event reuses its level as-is; only events
				// seen for the first time scan for a free one.
				if b.Level == NoLevel {
					lvl, ok := firstFree(used)
					if !ok {
						return nil, fmt.Errorf("%w: %s has more than %d concurrent events", ErrLevelOverflow, day.Date, e.opts.MaxLevels)
					}
					b.Level = lvl
				}
				used[b.Level] = true
				occ.Level = b.Level

				occ.IsStart = b.StartDate == occ.Date
				occ.IsEnd = b.EndDate == e.cal.DateKey(e.addDays(occ.day, occ.Span-1))

				continuation := occ.Date != b.StartDate
				if continuation && di > 0 && occ.Date != firstDate {
					continue
				}
				visible = append(visible, occ)
				week.Entries = append(week.Entries, occ)
			}

			slices.SortStableFunc(visible, func(a, b *Occurrence) int {
				return cmp.Compare(a.Level, b.Level)
			})
			day.Entries = visible
		}
	}

	if e.opts.MaxEventsPerDay > 0 {
		e.truncate(weeks)
	}
	return weeks, nil
}

// truncate drops month boxes on rows at or past MaxEventsPerDay and counts
// them per cell.
func (e *Engine) truncate(weeks []Week) {
	limit := e.opts.MaxEventsPerDay
	for wi := range weeks {
		week := &weeks[wi]
		for di := range week.Days {
			day := &week.Days[di]
			kept := day.Entries[:0]
			for _, occ := range day.Entries {
				if occ.Level >= limit {
					day.Hidden++
					continue
				}
				kept = append(kept, occ)
			}
			day.Entries = kept
		}
		week.Entries = slices.DeleteFunc(week.Entries, func(occ *Occurrence) bool {
			return occ.Level >= limit
		})
	}
}

func firstFree(used []bool) (int, bool) {
	for i, u := range used {
		if !u {
			return i, true
		}
	}
	return 0, false
}
