package scroll

import (
	"image"
	"math"
	"sync"
	"time"

	"namespotter.com/namespotter-go/internal/cv"
	"namespotter.com/namespotter-go/internal/logging"
	"namespotter.com/namespotter-go/internal/ocr"
)

const (
	// DefaultScrollThreshold is the minimum mean vertical displacement, in
	// pixels, for text correlation to report a scroll.
	DefaultScrollThreshold = 10

	// DefaultCorrelationThreshold is the minimum strip correlation score for
	// image correlation to report a scroll.
	DefaultCorrelationThreshold = 0.7

	// DefaultCooldown suppresses image-correlation detections after an
	// accepted event so oscillation is not reported as repeated scrolls.
	DefaultCooldown = 500 * time.Millisecond

	// textConfidence is the fixed confidence of text-correlation events.
	// Matching recognized text between two OCR passes is a more reliable
	// signal than strip correlation.
	textConfidence = 0.8

	// deltaStdDevLimit is the maximum standard deviation of the vertical
	// deltas for the movement to count as a uniform scroll.
	deltaStdDevLimit = 20.0

	// minTextMatches is how many detections must match by raw text between
	// two passes before text correlation is attempted.
	minTextMatches = 2

	// minStripHeight is the smallest comparison strip used by image
	// correlation.
	minStripHeight = 50

	historyCapacity = 10
)

// DetectorConfig holds tuning knobs for scroll detection.
type DetectorConfig struct {
	ScrollThreshold      int
	CorrelationThreshold float64
	Cooldown             time.Duration
}

// DefaultDetectorConfig returns recommended settings.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ScrollThreshold:      DefaultScrollThreshold,
		CorrelationThreshold: DefaultCorrelationThreshold,
		Cooldown:             DefaultCooldown,
	}
}

// Detector determines whether captured content has shifted vertically
// between two samples, using image strip correlation between successive
// frames and text correlation between successive OCR passes.
type Detector struct {
	cfg    DetectorConfig
	clock  func() time.Time
	logger *logging.Logger

	mu             sync.Mutex
	lastFrame      *image.Gray
	lastDetections []ocr.TextDetection
	lastScrollTime time.Time
	history        []Event
}

// NewDetector creates a scroll detector with the given configuration.
func NewDetector(cfg DetectorConfig) *Detector {
	if cfg.ScrollThreshold <= 0 {
		cfg.ScrollThreshold = DefaultScrollThreshold
	}
	if cfg.CorrelationThreshold <= 0 {
		cfg.CorrelationThreshold = DefaultCorrelationThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	return &Detector{
		cfg:    cfg,
		clock:  time.Now,
		logger: logging.NewLogger("scroll"),
	}
}

// WithClock substitutes the time source, for tests.
func (d *Detector) WithClock(clock func() time.Time) *Detector {
	d.clock = clock
	return d
}

// DetectScroll compares the current frame against the previously cached one
// using strip correlation. The first frame only primes the cache. Returns
// nil when no scroll is detected; the cached frame always advances to the
// current one.
func (d *Detector) DetectScroll(frame *image.RGBA) *Event {
	if frame == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	gray := cv.ToGray(frame)
	last := d.lastFrame
	d.lastFrame = gray

	if last == nil {
		return nil
	}

	now := d.clock()
	if now.Sub(d.lastScrollTime) < d.cfg.Cooldown {
		return nil
	}

	// Mismatched dimensions: region was resized, just re-baseline.
	if gray.Bounds().Dx() != last.Bounds().Dx() || gray.Bounds().Dy() != last.Bounds().Dy() {
		return nil
	}

	height := gray.Bounds().Dy()
	stripHeight := height / 4
	if stripHeight < minStripHeight {
		stripHeight = minStripHeight
	}
	if stripHeight > height {
		return nil
	}

	currentTop := cv.CropGray(gray, 0, stripHeight)
	currentBottom := cv.CropGray(gray, height-stripHeight, stripHeight)
	lastTop := cv.CropGray(last, 0, stripHeight)
	lastBottom := cv.CropGray(last, height-stripHeight, stripHeight)

	// Two hypotheses: the current top strip matching the previous bottom
	// strip means content moved up past the viewport (a scroll down), and
	// the inverse for a scroll up.
	downScore := cv.NormalizedCrossCorrelation(currentTop, lastBottom)
	upScore := cv.NormalizedCrossCorrelation(currentBottom, lastTop)

	var ev *Event
	switch {
	case downScore > d.cfg.CorrelationThreshold && downScore > upScore:
		ev = &Event{
			Direction: DirectionDown,
			// Heuristic proxy for displacement, not an exact measurement.
			Magnitude:  int(downScore * float64(stripHeight)),
			Confidence: downScore,
			Timestamp:  now,
		}
	case upScore > d.cfg.CorrelationThreshold && upScore > downScore:
		ev = &Event{
			Direction:  DirectionUp,
			Magnitude:  int(upScore * float64(stripHeight)),
			Confidence: upScore,
			Timestamp:  now,
		}
	}

	if ev != nil {
		d.recordLocked(*ev)
		d.logger.DebugWithContext("scroll detected by strip correlation", map[string]interface{}{
			"direction":  ev.Direction,
			"magnitude":  ev.Magnitude,
			"confidence": ev.Confidence,
		})
	}

	return ev
}

// TrackDetections compares the current OCR pass against the previous one.
// Detections are matched by identical raw text; a consistent vertical delta
// across at least two matches indicates a scroll. The cached detection set
// always advances to the current one.
func (d *Detector) TrackDetections(detections []ocr.TextDetection) *Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	last := d.lastDetections
	d.lastDetections = detections

	if len(last) == 0 || len(detections) == 0 {
		return nil
	}

	lastByText := make(map[string]ocr.TextDetection, len(last))
	for _, det := range last {
		lastByText[det.Text] = det
	}

	var deltas []float64
	for _, det := range detections {
		prev, ok := lastByText[det.Text]
		if !ok {
			continue
		}
		deltas = append(deltas, float64(det.Y-prev.Y))
	}

	if len(deltas) < minTextMatches {
		return nil
	}

	mean, stdDev := meanStdDev(deltas)

	// High dispersion means the movement is not a uniform scroll.
	if stdDev >= deltaStdDevLimit {
		return nil
	}
	if math.Abs(mean) <= float64(d.cfg.ScrollThreshold) {
		return nil
	}

	direction := DirectionUp
	if mean > 0 {
		direction = DirectionDown
	}

	ev := &Event{
		Direction:  direction,
		Magnitude:  int(math.Abs(mean)),
		Confidence: textConfidence,
		Timestamp:  d.clock(),
	}
	d.recordLocked(*ev)
	d.logger.DebugWithContext("scroll detected by text correlation", map[string]interface{}{
		"direction": ev.Direction,
		"magnitude": ev.Magnitude,
		"matches":   len(deltas),
	})

	return ev
}

// History returns a copy of the recent scroll events, oldest first.
func (d *Detector) History() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Event, len(d.history))
	copy(out, d.history)
	return out
}

// Reset clears all cached frames, detections, and history.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastFrame = nil
	d.lastDetections = nil
	d.history = nil
	d.lastScrollTime = time.Time{}
}

func (d *Detector) recordLocked(ev Event) {
	d.history = append(d.history, ev)
	if len(d.history) > historyCapacity {
		d.history = d.history[len(d.history)-historyCapacity:]
	}
	d.lastScrollTime = ev.Timestamp
}

func meanStdDev(values []float64) (mean, stdDev float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
