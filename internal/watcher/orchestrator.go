package watcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"namespotter.com/namespotter-go/internal/cv"
	"namespotter.com/namespotter-go/internal/events"
	"namespotter.com/namespotter-go/internal/logging"
	"namespotter.com/namespotter-go/internal/ocr"
	"namespotter.com/namespotter-go/internal/scroll"
	"namespotter.com/namespotter-go/internal/tracker"
)

const (
	// MinInterval is the fastest supported scan cadence.
	MinInterval = 1 * time.Second
	// MaxInterval is the slowest supported scan cadence.
	MaxInterval = 60 * time.Second

	// ocrTimeout bounds a single text extraction pass.
	ocrTimeout = 10 * time.Second
)

// Orchestrator drives the capture-detect-classify pipeline on a fixed
// interval. At most one tick runs at a time; triggers that arrive while
// a tick is in flight are dropped rather than queued.
type Orchestrator struct {
	capturer  cv.Capturer
	change    *cv.ChangeDetector
	scrollDet *scroll.Detector
	extractor ocr.Extractor
	ledger    *tracker.Ledger
	bus       *events.Bus
	logger    *logging.Logger

	interval atomic.Int64
	inFlight atomic.Bool
	running  atomic.Bool

	// OnMarkersUpdated receives the marker set after every completed tick
	// that changed it. Optional.
	OnMarkersUpdated func([]tracker.Marker)
	// OnScrollDetected receives scroll events as they are recognized. Optional.
	OnScrollDetected func(scroll.Event)
	// OnStoreError is called when the durable store fails during a tick.
	// Classification keeps running on session state until it clears. Optional.
	OnStoreError func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOrchestrator wires the pipeline components together.
func NewOrchestrator(
	capturer cv.Capturer,
	change *cv.ChangeDetector,
	scrollDet *scroll.Detector,
	extractor ocr.Extractor,
	ledger *tracker.Ledger,
	bus *events.Bus,
	logger *logging.Logger,
	interval time.Duration,
) *Orchestrator {
	o := &Orchestrator{
		capturer:  capturer,
		change:    change,
		scrollDet: scrollDet,
		extractor: extractor,
		ledger:    ledger,
		bus:       bus,
		logger:    logger,
	}
	o.interval.Store(int64(clampInterval(interval)))
	return o
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// SetInterval changes the scan cadence. Takes effect on the next tick.
func (o *Orchestrator) SetInterval(d time.Duration) {
	o.interval.Store(int64(clampInterval(d)))
}

// Interval returns the current scan cadence.
func (o *Orchestrator) Interval() time.Duration {
	return time.Duration(o.interval.Load())
}

// Start begins the periodic scan loop. Returns an error if already running.
func (o *Orchestrator) Start(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		return fmt.Errorf("orchestrator already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	o.mu.Lock()
	o.cancel = cancel
	o.done = done
	o.mu.Unlock()

	o.logger.InfoWithContext("Starting scan loop", map[string]interface{}{
		"interval": o.Interval().String(),
	})

	go o.run(runCtx, done)
	return nil
}

// Stop halts the scan loop and waits for any in-flight tick to finish.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	done := o.done
	o.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	o.running.Store(false)
	o.logger.Info("Scan loop stopped")
}

func (o *Orchestrator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(o.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			o.Trigger(ctx)
			timer.Reset(o.Interval())
		}
	}
}

// Trigger runs a single scan tick immediately. If a tick is already in
// flight, the trigger is dropped and Trigger returns false.
func (o *Orchestrator) Trigger(ctx context.Context) bool {
	if !o.inFlight.CompareAndSwap(false, true) {
		o.logger.Debug("Tick already in flight, dropping trigger")
		return false
	}
	defer o.inFlight.Store(false)

	start := time.Now()
	if err := o.tick(ctx); err != nil {
		o.logger.Error("Scan tick failed", err)
	} else {
		o.logger.DebugWithContext("Scan tick completed", map[string]interface{}{
			"duration": time.Since(start).String(),
		})
	}
	return true
}

// tick runs one full pipeline pass: capture, change gate, scroll
// detection, extraction, classification.
func (o *Orchestrator) tick(ctx context.Context) error {
	start := time.Now()

	frame, err := o.capturer.CaptureFrame()
	if err != nil {
		return tickError(StageCapture, err)
	}

	changed := o.change.HasChanged(frame)

	// Scroll detection consumes every frame so its baseline stays
	// current even across unchanged ticks.
	ev := o.scrollDet.DetectScroll(frame)
	if ev != nil {
		o.emitScroll(*ev)
	}

	if !changed {
		if ev == nil {
			return nil
		}
		// Content is stable but the view moved: re-project markers
		// without re-running OCR.
		markers := o.ledger.ProjectMarkers(*ev)
		o.emitMarkers(markers)
		return nil
	}

	ocrCtx, cancel := context.WithTimeout(ctx, ocrTimeout)
	detections, err := o.extractor.Extract(ocrCtx, frame)
	cancel()
	if err != nil {
		// Extraction failure counts as an empty result for this tick.
		o.logger.Warn("Text extraction failed, treating as empty: " + err.Error())
		detections = nil
	}

	// Every OCR pass feeds text correlation so its baseline tracks the
	// latest detections; its event is only used when strip correlation
	// saw nothing.
	textEv := o.scrollDet.TrackDetections(detections)
	if ev == nil && textEv != nil {
		ev = textEv
		o.emitScroll(*ev)
	}

	markers, err := o.ledger.Classify(detections, ev)
	if err != nil {
		storeErr := tickError(StageStore, err)
		if o.OnStoreError != nil {
			o.OnStoreError(storeErr)
		}
		o.bus.Publish(events.Event{
			Type:      events.EventStoreError,
			Timestamp: time.Now(),
			Data:      events.StoreErrorData{Err: storeErr},
		})
		o.logger.Error("Name store error during classification", err)
	}
	o.emitMarkers(markers)

	duplicates := 0
	for _, m := range markers {
		if m.Classification != tracker.ClassFirstSeen {
			duplicates++
		}
	}
	o.bus.Publish(events.Event{
		Type:      events.EventScanCompleted,
		Timestamp: time.Now(),
		Data: events.ScanCompletedData{
			Detections: len(detections),
			Duplicates: duplicates,
			Duration:   time.Since(start),
		},
	})
	return nil
}

func (o *Orchestrator) emitMarkers(markers []tracker.Marker) {
	if o.OnMarkersUpdated != nil {
		o.OnMarkersUpdated(markers)
	}
	o.bus.Publish(events.Event{
		Type:      events.EventMarkersUpdated,
		Timestamp: time.Now(),
		Data:      events.MarkersUpdatedData{Markers: markers},
	})
}

func (o *Orchestrator) emitScroll(ev scroll.Event) {
	if o.OnScrollDetected != nil {
		o.OnScrollDetected(ev)
	}
	o.bus.Publish(events.Event{
		Type:      events.EventScrollDetected,
		Timestamp: time.Now(),
		Data:      events.ScrollDetectedData{Event: ev},
	})
}

// ScanNow forces a scan outside the normal cadence. Returns false if a
// tick was already in flight.
func (o *Orchestrator) ScanNow(ctx context.Context) bool {
	return o.Trigger(ctx)
}

// ResetSession clears session duplicate state and detector baselines
// while keeping the persistent name store intact.
func (o *Orchestrator) ResetSession() {
	o.ledger.ResetSession()
	o.change.Reset()
	o.scrollDet.Reset()
	o.emitMarkers(nil)
	o.bus.Publish(events.Event{
		Type:      events.EventSessionReset,
		Timestamp: time.Now(),
	})
	o.logger.Info("Session reset")
}

// ClearAll wipes both session state and the persistent name store.
func (o *Orchestrator) ClearAll() error {
	if err := o.ledger.ClearAll(); err != nil {
		return err
	}
	o.change.Reset()
	o.scrollDet.Reset()
	o.emitMarkers(nil)
	o.logger.Info("All tracked names cleared")
	return nil
}

// Statistics reports session and persistent name counts.
func (o *Orchestrator) Statistics() (tracker.Statistics, error) {
	return o.ledger.GetStatistics()
}
