package cv

import (
	"image"
	"image/color"
	"sync"
	"testing"
)

func solidFrame(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func checkerFrame(width, height, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestComputeFingerprintDeterministic(t *testing.T) {
	frame := checkerFrame(64, 64, 8)

	a, err := ComputeFingerprint(frame)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	b, err := ComputeFingerprint(frame)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if a != b {
		t.Errorf("same frame produced different fingerprints: %s vs %s", a, b)
	}
	if a.Distance(b) != 0 {
		t.Errorf("expected zero distance, got %d", a.Distance(b))
	}
}

func TestComputeFingerprintDistinguishes(t *testing.T) {
	a, err := ComputeFingerprint(checkerFrame(64, 64, 8))
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	inverted := checkerFrame(64, 64, 8)
	for i := 0; i < len(inverted.Pix); i += 4 {
		inverted.Pix[i] = 255 - inverted.Pix[i]
		inverted.Pix[i+1] = 255 - inverted.Pix[i+1]
		inverted.Pix[i+2] = 255 - inverted.Pix[i+2]
	}
	b, err := ComputeFingerprint(inverted)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if a.Distance(b) <= DefaultHashThreshold {
		t.Errorf("inverted frame should be far from original, distance %d", a.Distance(b))
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Fingerprint(0xF0F0F0F0F0F0F0F0)
	b := Fingerprint(0x0F0F0F0F0F0F0F0F)
	if a.Distance(b) != b.Distance(a) {
		t.Error("distance must be symmetric")
	}
	if a.Distance(b) != 64 {
		t.Errorf("expected distance 64, got %d", a.Distance(b))
	}
}

func TestComputeFingerprintRejectsTinyImages(t *testing.T) {
	if _, err := ComputeFingerprint(solidFrame(4, 4, color.RGBA{A: 255})); err == nil {
		t.Error("expected an error for an image below the grid size")
	}
	if _, err := ComputeFingerprint(nil); err == nil {
		t.Error("expected an error for a nil image")
	}
}

func TestChangeDetectorBootstrap(t *testing.T) {
	d := NewChangeDetector(DefaultHashThreshold)
	if !d.HasChanged(checkerFrame(64, 64, 8)) {
		t.Error("first frame must report changed")
	}
}

func TestChangeDetectorStableFrames(t *testing.T) {
	d := NewChangeDetector(DefaultHashThreshold)
	frame := checkerFrame(64, 64, 8)

	d.HasChanged(frame)
	if d.HasChanged(frame) {
		t.Error("identical frame should not report changed")
	}
}

func TestChangeDetectorDetectsChange(t *testing.T) {
	d := NewChangeDetector(DefaultHashThreshold)

	d.HasChanged(checkerFrame(64, 64, 8))
	if !d.HasChanged(checkerFrame(64, 64, 16)) {
		t.Error("different content should report changed")
	}
}

func TestChangeDetectorFailsOpen(t *testing.T) {
	d := NewChangeDetector(DefaultHashThreshold)
	d.HasChanged(checkerFrame(64, 64, 8))

	if !d.HasChanged(nil) {
		t.Error("fingerprint failure must report changed")
	}
	// The failure reset the baseline, so the next good frame bootstraps.
	if !d.HasChanged(checkerFrame(64, 64, 8)) {
		t.Error("frame after a failure must report changed")
	}
}

func TestChangeDetectorConcurrentReset(t *testing.T) {
	d := NewChangeDetector(DefaultHashThreshold)
	frame := checkerFrame(64, 64, 8)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.HasChanged(frame)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			d.Reset()
		}
	}()
	wg.Wait()

	// The detector still works after the churn.
	d.Reset()
	if !d.HasChanged(frame) {
		t.Error("first frame after reset must report changed")
	}
	if d.HasChanged(frame) {
		t.Error("identical frame should not report changed")
	}
}

func TestChangeDetectorReset(t *testing.T) {
	d := NewChangeDetector(DefaultHashThreshold)
	frame := checkerFrame(64, 64, 8)

	d.HasChanged(frame)
	d.Reset()
	if !d.HasChanged(frame) {
		t.Error("first frame after reset must report changed")
	}
}
