// Package report renders layouts as text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"callay/internal/layout"
	"callay/internal/model"
)

const timeLayout = "15:04"

// Label returns the text shown for an occurrence: the ICS summary when the
// payload carries one, else the event id.
func Label(occ *layout.Occurrence) string {
	switch p := occ.Event.Payload.(type) {
	case model.Occurrence:
		if p.Summary != "" {
			return p.Summary
		}
	case *model.Occurrence:
		if p != nil && p.Summary != "" {
			return p.Summary
		}
	}
	return occ.ID
}

// MonthTable writes one row per visible month box.
func MonthTable(w io.Writer, weeks []layout.Week) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Week", "Date", "Row", "Span", "Flags", "Event"})
	for _, wk := range weeks {
		weekKey := wk.Start.Format("2006-01-02")
		for _, d := range wk.Days {
			for _, occ := range d.Entries {
				tw.AppendRow(table.Row{weekKey, d.Date, occ.Level, occ.Span, flags(occ), Label(occ)})
			}
			if d.Hidden > 0 {
				tw.AppendRow(table.Row{weekKey, d.Date, "", "", "", fmt.Sprintf("+%d more", d.Hidden)})
			}
		}
		tw.AppendSeparator()
	}
	tw.Render()
}

// DayTable writes one row per day entry. All-day entries have no column.
func DayTable(w io.Writer, days []layout.Day) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Date", "Time", "Column", "Flags", "Event"})
	for _, d := range days {
		for _, occ := range d.Entries {
			when, col := "all day", "-"
			if !occ.AllDay {
				when = occ.Event.Start.In(d.Time.Location()).Format(timeLayout)
				col = fmt.Sprintf("%d/%d", occ.Level+1, occ.MaxLevel+1)
			}
			tw.AppendRow(table.Row{d.Date, when, col, flags(occ), Label(occ)})
		}
	}
	tw.Render()
}

func flags(occ *layout.Occurrence) string {
	var parts []string
	if occ.IsStart {
		parts = append(parts, "start")
	}
	if occ.IsEnd {
		parts = append(parts, "end")
	}
	return strings.Join(parts, ",")
}
