package ics

import (
	"callay/internal/layout"
	"callay/internal/model"
)

// LayoutEvents converts expanded occurrences into layout engine input. The
// occurrence itself rides along as the event payload. All-day events are
// dropped when includeAllDay is false.
func LayoutEvents(occs []model.Occurrence, includeAllDay bool) []layout.Event {
	out := make([]layout.Event, 0, len(occs))
	for _, occ := range occs {
		if occ.AllDay && !includeAllDay {
			continue
		}
		out = append(out, layout.Event{
			ID:              occ.ID(),
			Start:           occ.Start,
			DurationMinutes: occ.DurationMinutes(),
			AllDay:          occ.AllDay,
			Payload:         occ,
		})
	}
	return out
}
