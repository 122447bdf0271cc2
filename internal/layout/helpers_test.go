package layout

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"callay/internal/zoned"
)

const testZone = "Europe/Berlin"

func testCalendar(t *testing.T) *zoned.Calendar {
	t.Helper()
	loc, err := time.LoadLocation(testZone)
	require.NoError(t, err)
	return zoned.New(loc, time.Sunday)
}

func at(t *testing.T, cal *zoned.Calendar, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04", s, cal.Location())
	require.NoError(t, err)
	return v
}

// fixture builds events with sequential ids e0, e1, ...
type fixture struct {
	t      *testing.T
	cal    *zoned.Calendar
	events []Event
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, cal: testCalendar(t)}
}

func (f *fixture) add(start string, minutes int) Event {
	ev := Event{
		ID:              fmt.Sprintf("e%d", len(f.events)),
		Start:           at(f.t, f.cal, start),
		DurationMinutes: minutes,
	}
	f.events = append(f.events, ev)
	return ev
}

func (f *fixture) addAllDay(start string, minutes int) Event {
	ev := f.add(start, minutes)
	ev.AllDay = true
	f.events[len(f.events)-1] = ev
	return ev
}

func ids(entries []*Occurrence) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func levels(entries []*Occurrence) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Level)
	}
	return out
}

func maxLevels(entries []*Occurrence) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.MaxLevel)
	}
	return out
}
