package layout

import "time"

// buildWeeks returns the empty week grid covering start..end: from the week
// containing start through the week containing end, seven days each.
func (e *Engine) buildWeeks(start, end time.Time) []Week {
	first := e.cal.StartOfWeek(start)
	last := e.cal.StartOfWeek(end)

	weeks := make([]Week, 0, wholeDays(first, last)/7+1)
	for ws := first; !ws.After(last); {
		week := Week{
			Start:   ws,
			Days:    make([]Day, 0, 7),
			Entries: []*Occurrence{},
		}
		d := ws
		for i := 0; i < 7; i++ {
			week.Days = append(week.Days, e.newDay(d))
			d = e.cal.NextDay(d)
		}
		weeks = append(weeks, week)
		ws = d
	}
	return weeks
}

// buildDays returns one empty Day per local date from start to end inclusive.
func (e *Engine) buildDays(start, end time.Time) []Day {
	first := e.cal.StartOfDay(start)
	last := e.cal.StartOfDay(end)

	days := make([]Day, 0, wholeDays(first, last)+1)
	for d := first; !d.After(last); d = e.cal.NextDay(d) {
		days = append(days, e.newDay(d))
	}
	return days
}

func (e *Engine) newDay(d time.Time) Day {
	_, m, dom := d.Date()
	return Day{
		Date:       e.cal.DateKey(d),
		Time:       d,
		Weekday:    d.Weekday(),
		Month:      m,
		DayOfMonth: dom,
		Entries:    []*Occurrence{},
	}
}
