package cv

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Region is the rectangular subarea of the screen being monitored.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid reports whether the region has positive dimensions.
func (r Region) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Bounds returns the region as an image.Rectangle in screen coordinates.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// ErrInvalidRegion indicates a region with non-positive dimensions.
var ErrInvalidRegion = fmt.Errorf("invalid region dimensions")

// Capturer interface for different frame sources
type Capturer interface {
	CaptureFrame() (*image.RGBA, error)
	GetDimensions() (width, height int)
}

// ScreenCapturer captures a fixed screen region via the OS screenshot API
type ScreenCapturer struct {
	region Region
}

// NewScreenCapturer creates a capturer for the given screen region
func NewScreenCapturer(region Region) (*ScreenCapturer, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidRegion, region.Width, region.Height)
	}
	return &ScreenCapturer{region: region}, nil
}

// CaptureFrame captures the configured region. Failures surface as errors,
// never as an empty image.
func (c *ScreenCapturer) CaptureFrame() (*image.RGBA, error) {
	if !c.region.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidRegion, c.region.Width, c.region.Height)
	}

	img, err := screenshot.CaptureRect(c.region.Bounds())
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %d,%d %dx%d: %w",
			c.region.X, c.region.Y, c.region.Width, c.region.Height, err)
	}
	if img == nil {
		return nil, fmt.Errorf("capture returned no image for region %d,%d %dx%d",
			c.region.X, c.region.Y, c.region.Width, c.region.Height)
	}

	return img, nil
}

// GetDimensions returns the capture region size
func (c *ScreenCapturer) GetDimensions() (width, height int) {
	return c.region.Width, c.region.Height
}

// SetRegion updates the monitored region
func (c *ScreenCapturer) SetRegion(region Region) error {
	if !region.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidRegion, region.Width, region.Height)
	}
	c.region = region
	return nil
}

// PrimaryDisplayBounds returns the bounds of the primary display.
func PrimaryDisplayBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	return screenshot.GetDisplayBounds(0), nil
}
