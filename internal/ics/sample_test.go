package ics

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

// sampleICS is a small calendar: a daily standup with an EXDATE and a moved
// instance, a two-day all-day trip and a VEVENT without UID.
var sampleICS = strings.Join([]string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//callay//test//EN",
	"BEGIN:VEVENT",
	"UID:standup-1",
	"DTSTART;TZID=Europe/Berlin:20180102T090000",
	"DTEND;TZID=Europe/Berlin:20180102T100000",
	"SUMMARY:Standup",
	"RRULE:FREQ=DAILY;COUNT=5",
	"EXDATE;TZID=Europe/Berlin:20180104T090000",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:standup-1",
	"RECURRENCE-ID;TZID=Europe/Berlin:20180103T090000",
	"DTSTART;TZID=Europe/Berlin:20180103T110000",
	"DTEND;TZID=Europe/Berlin:20180103T120000",
	"SUMMARY:Standup (moved)",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:trip-1",
	"DTSTART;VALUE=DATE:20180106",
	"DTEND;VALUE=DATE:20180108",
	"SUMMARY:Trip",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"DTSTART:20180105T130000Z",
	"DTEND:20180105T140000Z",
	"SUMMARY:No uid",
	"END:VEVENT",
	"END:VCALENDAR",
	"",
}, "\r\n")

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}
