package zoned

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date key format used throughout layouts.
const DateLayout = "2006-01-02"

// dayStep is longer than any local day (23h/24h/25h around DST shifts), so
// snapping down after it always lands on the following calendar date.
const dayStep = 30 * time.Hour

// Calendar walks local calendar days and weeks in a single location.
//
// Local days are never assumed to be 24 hours long. Stepping to the next day
// advances past the current day and snaps back to the local start of the day
// reached, which keeps iteration finite and gap-free across DST transitions,
// including zones whose midnight is skipped or repeated.
type Calendar struct {
	loc       *time.Location
	weekStart time.Weekday
}

// New constructs a Calendar for loc with weeks starting on weekStart.
// A nil loc falls back to time.Local.
func New(loc *time.Location, weekStart time.Weekday) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc, weekStart: weekStart}
}

// Load resolves an IANA zone name and a weekday name ("monday", "sunday", ...)
// into a Calendar.
func Load(zone, weekStart string) (*Calendar, error) {
	loc := time.Local
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("zoned: load location %q: %w", zone, err)
		}
		loc = l
	}
	wd, err := ParseWeekday(weekStart)
	if err != nil {
		return nil, err
	}
	return New(loc, wd), nil
}

func (c *Calendar) Location() *time.Location { return c.loc }

func (c *Calendar) WeekStart() time.Weekday { return c.weekStart }

// StartOfDay returns the first instant of t's local calendar date.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	y, m, d := t.Date()
	s := time.Date(y, m, d, 0, 0, 0, 0, c.loc)

	// Midnight does not exist on some DST change days; time.Date may then
	// resolve to the last hour of the previous date.
	for i := 0; i < 48 && !onDate(s, y, m, d); i++ {
		s = s.Add(time.Hour)
	}
	// On a repeated midnight prefer the earlier of the two instants.
	if p := s.Add(-time.Hour); onDate(p, y, m, d) {
		s = p
	}
	return s
}

// NextDay returns the start of the local date following t's date.
func (c *Calendar) NextDay(t time.Time) time.Time {
	return c.StartOfDay(c.StartOfDay(t).Add(dayStep))
}

// PrevDay returns the start of the local date preceding t's date.
func (c *Calendar) PrevDay(t time.Time) time.Time {
	return c.StartOfDay(c.StartOfDay(t).Add(-time.Hour))
}

// AddDays moves n whole local days from t's date and returns that day's start.
// Negative n moves backwards.
func (c *Calendar) AddDays(t time.Time, n int) time.Time {
	d := c.StartOfDay(t)
	for ; n > 0; n-- {
		d = c.NextDay(d)
	}
	for ; n < 0; n++ {
		d = c.PrevDay(d)
	}
	return d
}

// DayOfWeek returns t's position in its week, 0 being the first weekday.
func (c *Calendar) DayOfWeek(t time.Time) int {
	return (int(t.In(c.loc).Weekday()) - int(c.weekStart) + 7) % 7
}

// StartOfWeek returns the start of the first day of t's week.
func (c *Calendar) StartOfWeek(t time.Time) time.Time {
	return c.AddDays(t, -c.DayOfWeek(t))
}

// DateKey formats t's local date as YYYY-MM-DD.
func (c *Calendar) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date and returns the start of that local day.
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("zoned: parse date %q: %w", s, err)
	}
	return c.StartOfDay(t.Add(12 * time.Hour)), nil
}

// ParseWeekday maps a weekday name to time.Weekday. An empty name means Sunday.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("zoned: unknown weekday %q", name)
}

func onDate(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}
