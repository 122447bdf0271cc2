package pipeline

import (
	"io"

	"github.com/goccy/go-json"

	"callay/internal/config"
	"callay/internal/layout"
)

// Snapshot is the JSON document written by the CLI and by watch mode.
// Exactly one of Weeks or Days is set.
type Snapshot struct {
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
	Timezone   string `json:"timezone"`
	WeekStart  string `json:"week_start"`

	Weeks []layout.Week `json:"weeks,omitempty"`
	Days  []layout.Day  `json:"days,omitempty"`
}

// WriteJSON encodes snap as indented JSON.
func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// SaveJSON atomically replaces path with the encoded snapshot.
func SaveJSON(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return config.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
