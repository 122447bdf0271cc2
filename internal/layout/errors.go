package layout

import "errors"

// Layout errors.
var (
	ErrInvalidRange  = errors.New("layout: invalid range")
	ErrInvalidEvent  = errors.New("layout: invalid event")
	ErrLevelOverflow = errors.New("layout: no free level left")
)
