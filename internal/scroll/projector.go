package scroll

// offscreenTolerance is how far past the top of the region a marker's bottom
// edge may sit before the marker is dropped. Slight overflow is kept so
// markers reappear cleanly when scrolled back.
const offscreenTolerance = -50

// AdjustRect applies a scroll displacement to a rectangle. Content scrolling
// down means on-screen positions move up, so markers tracking that content
// get y -= magnitude; scrolling up is the inverse. The second return value
// reports whether the rectangle is still within the visible area.
func AdjustRect(r Rect, ev Event) (Rect, bool) {
	switch ev.Direction {
	case DirectionDown:
		r.Y -= ev.Magnitude
	case DirectionUp:
		r.Y += ev.Magnitude
	}

	return r, r.Y+r.Height > offscreenTolerance
}

// AdjustRects applies a scroll displacement to every rectangle, dropping the
// ones that have left the visible area. Pure function: the input slice is
// not modified.
func AdjustRects(rects []Rect, ev Event) []Rect {
	adjusted := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if moved, visible := AdjustRect(r, ev); visible {
			adjusted = append(adjusted, moved)
		}
	}
	return adjusted
}
