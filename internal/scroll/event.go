package scroll

import (
	"time"
)

// Direction of a vertical scroll, from the content's point of view.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Event describes one detected scroll: direction, approximate pixel
// magnitude, and how confident the detector is in the signal.
type Event struct {
	Direction  Direction
	Magnitude  int
	Confidence float64
	Timestamp  time.Time
}

// Rect is an axis-aligned rectangle in region coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}
