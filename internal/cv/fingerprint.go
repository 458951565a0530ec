package cv

import (
	"fmt"
	"image"
	"math/bits"
	"sync"
)

// fingerprintGrid is the downsample size of the average hash. 8x8 cells
// give a 64-bit fingerprint.
const fingerprintGrid = 8

// Fingerprint is a 64-bit perceptual hash of a captured frame. Byte-identical
// frames produce identical fingerprints; visually similar frames produce
// fingerprints at small Hamming distance.
type Fingerprint uint64

// Distance returns the Hamming distance between two fingerprints. It is
// symmetric, and zero for equal fingerprints.
func (f Fingerprint) Distance(other Fingerprint) int {
	return bits.OnesCount64(uint64(f) ^ uint64(other))
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ComputeFingerprint calculates the average hash of a frame: the grayscale
// image is reduced to an 8x8 grid of cell means, and each bit records
// whether its cell is brighter than the overall mean.
func ComputeFingerprint(img *image.RGBA) (Fingerprint, error) {
	if img == nil {
		return 0, fmt.Errorf("no image provided for fingerprint")
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < fingerprintGrid || height < fingerprintGrid {
		return 0, fmt.Errorf("image too small to fingerprint: %dx%d", width, height)
	}

	gray := ToGray(img)

	// Mean intensity per grid cell
	var cells [fingerprintGrid * fingerprintGrid]uint64
	for cy := 0; cy < fingerprintGrid; cy++ {
		y0 := bounds.Min.Y + cy*height/fingerprintGrid
		y1 := bounds.Min.Y + (cy+1)*height/fingerprintGrid
		for cx := 0; cx < fingerprintGrid; cx++ {
			x0 := bounds.Min.X + cx*width/fingerprintGrid
			x1 := bounds.Min.X + (cx+1)*width/fingerprintGrid

			var sum uint64
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += uint64(gray.GrayAt(x, y).Y)
				}
			}
			area := uint64((y1 - y0) * (x1 - x0))
			cells[cy*fingerprintGrid+cx] = sum / area
		}
	}

	var total uint64
	for _, c := range cells {
		total += c
	}
	mean := total / uint64(len(cells))

	var hash uint64
	for i, c := range cells {
		if c > mean {
			hash |= 1 << uint(i)
		}
	}

	return Fingerprint(hash), nil
}

// ChangeDetector gates downstream work on perceptual frame changes. It keeps
// the fingerprint of the last frame seen and compares each new frame against
// it. Safe for concurrent use; Reset may race with an in-flight comparison.
type ChangeDetector struct {
	threshold int

	mu      sync.Mutex
	last    Fingerprint
	hasLast bool
}

// DefaultHashThreshold is the Hamming distance above which a frame counts
// as changed. Tuning knob, calibrated against human-scale perceptual
// difference.
const DefaultHashThreshold = 5

// NewChangeDetector creates a change detector with the given Hamming
// distance threshold.
func NewChangeDetector(threshold int) *ChangeDetector {
	if threshold <= 0 {
		threshold = DefaultHashThreshold
	}
	return &ChangeDetector{threshold: threshold}
}

// HasChanged reports whether the frame differs perceptually from the
// previous one. The first frame after construction or Reset always reports
// changed. The stored baseline advances to the current frame on every call,
// so drift is tracked frame-to-frame. If fingerprinting fails, the detector
// fails open: it reports changed and resets its baseline.
func (d *ChangeDetector) HasChanged(frame *image.RGBA) bool {
	current, err := ComputeFingerprint(frame)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.resetLocked()
		return true
	}

	if !d.hasLast {
		d.last = current
		d.hasLast = true
		return true
	}

	diff := d.last.Distance(current)
	d.last = current
	return diff > d.threshold
}

// Reset clears the stored baseline so the next frame re-bootstraps.
func (d *ChangeDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *ChangeDetector) resetLocked() {
	d.last = 0
	d.hasLast = false
}
