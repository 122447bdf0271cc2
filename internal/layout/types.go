package layout

import "time"

// NoLevel marks an occurrence or event that has not been given a lane.
// All-day entries in day layouts keep it.
const NoLevel = -1

// Event is a caller-owned source event. The engine only reads it.
type Event struct {
	// ID must be unique within one layout call.
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	// DurationMinutes below 1 is treated as a 1-minute event.
	DurationMinutes int  `json:"duration_minutes"`
	AllDay          bool `json:"all_day"`

	// Payload is opaque caller data carried through to every occurrence.
	Payload any `json:"payload,omitempty"`
}

// Bounds is the per-event state resolved once per layout call.
type Bounds struct {
	StartDate string
	EndDate   string
	Level     int
}

// Occurrence is one event's box on one calendar date.
type Occurrence struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Level int `json:"level"`
	// MaxLevel is the widest column reached by the overlap cluster this
	// entry was packed with. Day layouts only.
	MaxLevel int `json:"max_level"`
	// Span is the number of consecutive cells the box covers from Date.
	// Month layouts only.
	Span int `json:"span,omitempty"`

	IsStart bool `json:"is_start"`
	IsEnd   bool `json:"is_end"`
	AllDay  bool `json:"all_day"`

	Event Event `json:"event"`

	// day is the local start of Date; start/end are the event's effective
	// instants used for ordering and column packing.
	day   time.Time
	start time.Time
	end   time.Time
}

// Day is one calendar cell.
type Day struct {
	Date       string       `json:"date"`
	Time       time.Time    `json:"time"`
	Weekday    time.Weekday `json:"weekday"`
	Month      time.Month   `json:"month"`
	DayOfMonth int          `json:"day_of_month"`

	Entries []*Occurrence `json:"entries"`

	// Hidden counts boxes dropped by Options.MaxEventsPerDay.
	Hidden int `json:"hidden,omitempty"`
}

// Week is one row of a month grid.
type Week struct {
	Start time.Time `json:"start"`
	Days  []Day     `json:"days"`

	// Entries is the week's visible occurrences in placement order.
	Entries []*Occurrence `json:"entries"`
}

// Calendar is the zoned-time capability the engine runs on.
// *zoned.Calendar implements it.
type Calendar interface {
	StartOfDay(t time.Time) time.Time
	NextDay(t time.Time) time.Time
	StartOfWeek(t time.Time) time.Time
	DayOfWeek(t time.Time) int
	DateKey(t time.Time) string
}
