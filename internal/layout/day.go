package layout

import "time"

// Day lays out events on one row per local date from start to end.
//
// Days are packed independently. All-day entries are listed but keep
// NoLevel; intraday entries are placed into columns so that no two entries
// sharing a column overlap in time. MaxLevel tells a renderer how many
// columns the entry's overlap cluster needed at its widest.
func (e *Engine) Day(start, end time.Time, events []Event) ([]Day, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	days := e.buildDays(start, end)
	idx, err := e.expand(events, start, end)
	if err != nil {
		return nil, err
	}

	for i := range days {
		day := &days[i]
		entries := idx.dates[day.Date]
		if len(entries) == 0 {
			continue
		}
		byStart(entries)

		var columns []*Occurrence
		for _, occ := range entries {
			b := idx.bounds[occ.ID]
			occ.Span = 0
			occ.IsStart = b.StartDate == occ.Date
			occ.IsEnd = b.EndDate == occ.Date

			if occ.AllDay {
				occ.Level = NoLevel
				occ.MaxLevel = NoLevel
				continue
			}
			columns = place(columns, occ)
		}
		day.Entries = entries
	}

	return days, nil
}

// place puts occ into the first column whose occupant has ended by occ's
// start, vacating every ended column on the way, and returns the updated
// column list. Interior holes are kept so indexes stay stable while the
// cluster is active; trailing holes are trimmed.
func place(columns []*Occurrence, occ *Occurrence) []*Occurrence {
	next := -1
	for j, cur := range columns {
		if cur != nil && occ.start.Before(cur.end) {
			continue
		}
		if next < 0 {
			next = j
		}
		columns[j] = nil
	}
	for len(columns) > 0 && columns[len(columns)-1] == nil {
		columns = columns[:len(columns)-1]
	}

	if next < 0 || next >= len(columns) {
		next = len(columns)
		columns = append(columns, occ)
	} else {
		columns[next] = occ
	}
	occ.Level = next

	peak := len(columns) - 1
	for _, c := range columns {
		if c != nil && c.MaxLevel < peak {
			c.MaxLevel = peak
		}
	}
	return columns
}
