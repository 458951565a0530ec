package ocr

import (
	"context"
	"image"
)

// TextDetection is one recognized fragment or grouped phrase. Coordinates
// are pixels relative to the captured region. Confidence is 0-100.
type TextDetection struct {
	Text       string
	X          int
	Y          int
	Width      int
	Height     int
	Confidence float64
}

// Extractor turns a captured frame into positioned text detections. An
// empty result is valid and means no text was found.
type Extractor interface {
	Extract(ctx context.Context, img *image.RGBA) ([]TextDetection, error)
}
