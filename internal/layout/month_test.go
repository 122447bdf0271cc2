package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthRange(t *testing.T, f *fixture) ([]Week, error) {
	t.Helper()
	return MonthLayout(f.cal, at(t, f.cal, "2018-01-01 00:00"), at(t, f.cal, "2018-01-15 00:00"), f.events)
}

func TestMonthSingleEvent(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-01 08:00", 60)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	require.Len(t, weeks, 3)
	day := weeks[0].Days[1]
	assert.Equal(t, "2018-01-01", day.Date)
	require.Len(t, day.Entries, 1)
	assert.True(t, day.Entries[0].IsStart)
	assert.True(t, day.Entries[0].IsEnd)
	assert.Equal(t, 1, day.Entries[0].Span)

	visible := 0
	for _, w := range weeks {
		for _, d := range w.Days {
			visible += len(d.Entries)
		}
	}
	assert.Equal(t, 1, visible)
	assert.Equal(t, []string{"e0"}, ids(weeks[0].Entries))
}

func TestMonthGridShape(t *testing.T) {
	f := newFixture(t)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	want := []string{"2017-12-31", "2018-01-07", "2018-01-14"}
	require.Len(t, weeks, len(want))
	for i, w := range weeks {
		require.Len(t, w.Days, 7)
		assert.Equal(t, want[i], w.Days[0].Date)
		assert.Equal(t, w.Start, w.Days[0].Time)
		for _, d := range w.Days {
			assert.Empty(t, d.Entries)
		}
	}
	assert.Equal(t, "2018-01-20", weeks[2].Days[6].Date)
}

func TestMonthLevelsForMultipleEvents(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-02 14:00", 60)
	f.add("2018-01-01 10:15", 60)
	f.add("2018-01-01 08:00", 60)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	day := weeks[0].Days[1]
	require.Len(t, day.Entries, 2)
	assert.Equal(t, 8, day.Entries[0].Event.Start.Hour())
	assert.Equal(t, 0, day.Entries[0].Level)
	assert.Equal(t, 10, day.Entries[1].Event.Start.Hour())
	assert.Equal(t, 1, day.Entries[1].Level)
}

func TestMonthSpanningEventsInOneWeek(t *testing.T) {
	f := newFixture(t)
	first := f.add("2018-01-02 14:00", 60)
	second := f.add("2018-01-01 10:15", 60*48)
	third := f.add("2018-01-01 08:00", 60)
	fourth := f.add("2018-01-03 08:00", 30)
	fifth := f.add("2018-01-03 09:00", 30)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)
	days := weeks[0].Days

	// 2018-01-01
	require.Len(t, days[1].Entries, 2)
	e := days[1].Entries[0]
	assert.Equal(t, third.ID, e.ID)
	assert.True(t, e.IsStart)
	assert.True(t, e.IsEnd)
	assert.Equal(t, 0, e.Level)
	assert.Equal(t, 1, e.Span)

	e = days[1].Entries[1]
	assert.Equal(t, second.ID, e.ID)
	assert.True(t, e.IsStart)
	assert.True(t, e.IsEnd)
	assert.Equal(t, 1, e.Level)
	assert.Equal(t, 3, e.Span)

	// 2018-01-02
	require.Len(t, days[2].Entries, 1)
	assert.Equal(t, first.ID, days[2].Entries[0].ID)
	assert.Equal(t, 0, days[2].Entries[0].Level)
	assert.Equal(t, 1, days[2].Entries[0].Span)

	// 2018-01-03: the second event still holds level 1.
	require.Len(t, days[3].Entries, 2)
	assert.Equal(t, fourth.ID, days[3].Entries[0].ID)
	assert.Equal(t, 0, days[3].Entries[0].Level)
	assert.Equal(t, fifth.ID, days[3].Entries[1].ID)
	assert.Equal(t, 2, days[3].Entries[1].Level)
	assert.Equal(t, 1, days[3].Entries[1].Span)
}

func TestMonthSpanAcrossTwoWeeks(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-06 09:00", 30)
	long := f.add("2018-01-06 10:15", 60*24*4)
	f.add("2018-01-07 09:00", 30)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	// Saturday 2018-01-06
	sat := weeks[0].Days[6]
	require.Len(t, sat.Entries, 2)
	assert.NotEqual(t, long.ID, sat.Entries[0].ID)
	assert.Equal(t, long.ID, sat.Entries[1].ID)
	assert.Equal(t, 1, sat.Entries[1].Span)
	assert.True(t, sat.Entries[1].IsStart)
	assert.False(t, sat.Entries[1].IsEnd)

	// Sunday 2018-01-07
	sun := weeks[1].Days[0]
	require.Len(t, sun.Entries, 2)
	assert.NotEqual(t, long.ID, sun.Entries[0].ID)
	assert.Equal(t, long.ID, sun.Entries[1].ID)
	assert.Equal(t, 4, sun.Entries[1].Span)
	assert.False(t, sun.Entries[1].IsStart)
	assert.True(t, sun.Entries[1].IsEnd)

	// Tuesday 2018-01-09 is covered by Sunday's span.
	assert.Empty(t, weeks[1].Days[2].Entries)
}

func TestMonthSpanAcrossThreeWeeks(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-06 10:15", 60*24*10)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	cases := []struct {
		week, day  int
		span       int
		start, end bool
	}{
		{0, 6, 1, true, false},
		{1, 0, 7, false, false},
		{2, 0, 3, false, true},
	}
	for _, c := range cases {
		t.Run(weeks[c.week].Days[c.day].Date, func(t *testing.T) {
			entries := weeks[c.week].Days[c.day].Entries
			require.Len(t, entries, 1)
			assert.Equal(t, c.span, entries[0].Span)
			assert.Equal(t, c.start, entries[0].IsStart)
			assert.Equal(t, c.end, entries[0].IsEnd)
		})
	}

	for wi, w := range weeks {
		assert.Len(t, w.Entries, 1, "week %d", wi)
	}
}

func TestMonthAllDaySpanningWeeks(t *testing.T) {
	f := newFixture(t)
	f.addAllDay("2018-01-06 00:00", 60*24*10)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	sat := weeks[0].Days[6].Entries
	require.Len(t, sat, 1)
	assert.Equal(t, "2018-01-06", sat[0].StartDate)
	assert.Equal(t, "2018-01-15", sat[0].EndDate)
	assert.True(t, sat[0].AllDay)

	last := weeks[2].Days[0].Entries
	require.Len(t, last, 1)
	assert.Equal(t, 2, last[0].Span)
	assert.False(t, last[0].IsStart)
	assert.True(t, last[0].IsEnd)
}

func TestMonthCutsOffAtRangeEnd(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-06 09:00", 60*24*365*200)
	f.add("2018-12-31 09:00", 30)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)
	assert.Len(t, weeks, 3)
	assert.Empty(t, weeks[2].Days[1].Entries, "2018-01-15 lies at the range end")
}

func TestMonthFullDayAllDayEvent(t *testing.T) {
	f := newFixture(t)
	f.addAllDay("2018-01-01 00:00", 60*24)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	e := weeks[0].Days[1].Entries
	require.Len(t, e, 1)
	assert.Equal(t, 1, e[0].Span)
	assert.Equal(t, "2018-01-01", e[0].StartDate)
	assert.Equal(t, "2018-01-01", e[0].EndDate)
	assert.Empty(t, weeks[0].Days[2].Entries)
}

func TestMonthEventCrossingMidnight(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-01 23:30", 60)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	e := weeks[0].Days[1].Entries
	require.Len(t, e, 1)
	assert.Equal(t, 2, e[0].Span)
	assert.Equal(t, "2018-01-01", e[0].StartDate)
	assert.Equal(t, "2018-01-02", e[0].EndDate)
	assert.True(t, e[0].IsStart)
	assert.True(t, e[0].IsEnd)
	assert.Empty(t, weeks[0].Days[2].Entries)
}

func TestMonthEventStartedBeforeRange(t *testing.T) {
	f := newFixture(t)
	f.add("2017-12-20 10:00", 60*24*14)

	// The range starts on a Wednesday, mid-week.
	weeks, err := MonthLayout(f.cal, at(t, f.cal, "2018-01-03 00:00"), at(t, f.cal, "2018-01-10 00:00"), f.events)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	assert.Empty(t, weeks[0].Days[0].Entries, "grid padding before the range stays empty")
	wed := weeks[0].Days[3]
	require.Equal(t, "2018-01-03", wed.Date)
	require.Len(t, wed.Entries, 1)
	assert.False(t, wed.Entries[0].IsStart)
	assert.True(t, wed.Entries[0].IsEnd)
	assert.Equal(t, "2017-12-20", wed.Entries[0].StartDate)
	assert.Equal(t, 1, wed.Entries[0].Span)
	assert.Empty(t, weeks[1].Days[0].Entries)
}

func TestMonthLevelStableAcrossWeeks(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-05 08:00", 30)
	long := f.add("2018-01-05 09:00", 60*24*5)
	f.add("2018-01-07 07:00", 30)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	var seen []int
	for _, w := range weeks {
		for _, occ := range w.Entries {
			if occ.ID == long.ID {
				seen = append(seen, occ.Level)
			}
		}
	}
	assert.Equal(t, []int{1, 1}, seen)
}

// A continuing event reuses its row without re-checking it against rows
// already taken that day; the row is simply marked used again.
func TestMonthContinuationReusesLevelWithoutRecheck(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-01 08:00", 30)
	long := f.add("2018-01-01 09:00", 60*24*3)
	f.add("2018-01-02 08:00", 30)
	f.add("2018-01-02 10:00", 30)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	tue := weeks[0].Days[2]
	assert.Equal(t, []int{0, 2}, levels(tue.Entries))
	for _, w := range weeks {
		for _, occ := range w.Entries {
			if occ.ID == long.ID {
				assert.Equal(t, 1, occ.Level)
			}
		}
	}
}

func TestMonthEntriesSortedByLevel(t *testing.T) {
	f := newFixture(t)
	f.add("2017-12-31 08:00", 60*24*3)
	f.add("2017-12-31 09:00", 30)
	f.add("2018-01-01 07:00", 30)

	weeks, err := monthRange(t, f)
	require.NoError(t, err)

	for _, w := range weeks {
		for _, d := range w.Days {
			for i := 1; i < len(d.Entries); i++ {
				assert.LessOrEqual(t, d.Entries[i-1].Level, d.Entries[i].Level, d.Date)
			}
		}
	}
}

func TestMonthLevelOverflow(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < DefaultMaxLevels+1; i++ {
		f.add(fmt.Sprintf("2018-01-02 %02d:%02d", 8+i/60, i%60), 30)
	}

	_, err := monthRange(t, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLevelOverflow))

	f.events = f.events[:DefaultMaxLevels]
	_, err = monthRange(t, f)
	assert.NoError(t, err)
}

func TestMonthMaxEventsPerDay(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-02 08:00", 30)
	f.add("2018-01-02 09:00", 30)
	f.add("2018-01-02 10:00", 30)

	e := New(f.cal, WithMaxEventsPerDay(2))
	weeks, err := e.Month(at(t, f.cal, "2018-01-01 00:00"), at(t, f.cal, "2018-01-15 00:00"), f.events)
	require.NoError(t, err)

	tue := weeks[0].Days[2]
	assert.Equal(t, []string{"e0", "e1"}, ids(tue.Entries))
	assert.Equal(t, 1, tue.Hidden)
	assert.Len(t, weeks[0].Entries, 2)
}

func TestMonthEmptyAndZeroRange(t *testing.T) {
	f := newFixture(t)
	start := at(t, f.cal, "2018-01-03 00:00")

	weeks, err := MonthLayout(f.cal, start, start, nil)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	require.Len(t, weeks[0].Days, 7)

	f.add("2019-06-01 10:00", 60)
	weeks, err = MonthLayout(f.cal, start, start, f.events)
	require.NoError(t, err)
	assert.Empty(t, weeks[0].Entries)
}

func TestMonthInvalidInput(t *testing.T) {
	f := newFixture(t)
	start := at(t, f.cal, "2018-01-03 00:00")

	_, err := MonthLayout(f.cal, start, start.Add(-1), nil)
	assert.ErrorIs(t, err, ErrInvalidRange)

	f.add("2018-01-03 10:00", 60)
	f.events = append(f.events, f.events[0])
	_, err = MonthLayout(f.cal, start, start.AddDate(0, 0, 7), f.events)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = MonthLayout(f.cal, start, start.AddDate(0, 0, 7), []Event{{Start: start}})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestMonthIsDeterministic(t *testing.T) {
	f := newFixture(t)
	f.add("2018-01-06 10:15", 60*24*10)
	f.add("2018-01-01 08:00", 60)
	f.add("2018-01-01 08:00", 90)
	f.addAllDay("2018-01-02 00:00", 60*24*2)
	before := append([]Event(nil), f.events...)

	a, err := monthRange(t, f)
	require.NoError(t, err)
	b, err := monthRange(t, f)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, before, f.events, "input events must not be mutated")
}
