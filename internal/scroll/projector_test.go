package scroll

import "testing"

func TestAdjustRectDown(t *testing.T) {
	r, visible := AdjustRect(Rect{X: 10, Y: 50, Width: 80, Height: 20}, Event{
		Direction: DirectionDown,
		Magnitude: 20,
	})
	if !visible {
		t.Fatal("marker should still be visible")
	}
	if r.Y != 30 {
		t.Errorf("scroll down 20 should move y 50 to 30, got %d", r.Y)
	}
	if r.X != 10 || r.Width != 80 || r.Height != 20 {
		t.Errorf("only y should change, got %+v", r)
	}
}

func TestAdjustRectUp(t *testing.T) {
	r, visible := AdjustRect(Rect{X: 10, Y: 50, Width: 80, Height: 20}, Event{
		Direction: DirectionUp,
		Magnitude: 15,
	})
	if !visible {
		t.Fatal("marker should still be visible")
	}
	if r.Y != 65 {
		t.Errorf("scroll up 15 should move y 50 to 65, got %d", r.Y)
	}
}

func TestAdjustRectOffscreen(t *testing.T) {
	_, visible := AdjustRect(Rect{X: 10, Y: 10, Width: 80, Height: 10}, Event{
		Direction: DirectionDown,
		Magnitude: 200,
	})
	if visible {
		t.Error("marker pushed far above the region should be dropped")
	}

	// Slightly above the top edge is still kept.
	r, visible := AdjustRect(Rect{X: 10, Y: 10, Width: 80, Height: 20}, Event{
		Direction: DirectionDown,
		Magnitude: 50,
	})
	if !visible {
		t.Error("marker just past the top edge should be kept")
	}
	if r.Y != -40 {
		t.Errorf("expected y=-40, got %d", r.Y)
	}
}

func TestAdjustRects(t *testing.T) {
	rects := []Rect{
		{X: 10, Y: 300, Width: 80, Height: 20},
		{X: 10, Y: 30, Width: 80, Height: 20},
	}
	adjusted := AdjustRects(rects, Event{Direction: DirectionDown, Magnitude: 100})

	if len(adjusted) != 1 {
		t.Fatalf("expected 1 surviving rect, got %d", len(adjusted))
	}
	if adjusted[0].Y != 200 {
		t.Errorf("expected y=200, got %d", adjusted[0].Y)
	}
	// Input must be untouched.
	if rects[0].Y != 300 || rects[1].Y != 30 {
		t.Errorf("input slice was modified: %+v", rects)
	}
}
