package tracker

import (
	"fmt"
	"sort"
	"sync"

	"namespotter.com/namespotter-go/internal/logging"
	"namespotter.com/namespotter-go/internal/ocr"
	"namespotter.com/namespotter-go/internal/scroll"
)

// positionHistoryCapacity bounds the remembered positions per name.
const positionHistoryCapacity = 10

// Store is the durable-store contract the ledger depends on. The durable
// cumulative count is the source of truth for whether a name has ever been
// seen before; the ledger never holds its own durable copy.
type Store interface {
	AddNameOccurrence(name string, count int) error
	GetNameCount(name string) (int, error)
	GetStatistics() (totalNames int, totalOccurrences int, err error)
	ClearAll() error
}

// Classification describes why an occurrence was flagged.
type Classification int

const (
	// ClassFirstSeen marks a name with no prior history.
	ClassFirstSeen Classification = iota
	// ClassSessionDuplicate marks a name seen earlier in this session.
	ClassSessionDuplicate
	// ClassPersistedDuplicate marks a name whose history predates this
	// session.
	ClassPersistedDuplicate
)

func (c Classification) String() string {
	switch c {
	case ClassSessionDuplicate:
		return "session-duplicate"
	case ClassPersistedDuplicate:
		return "persisted-duplicate"
	default:
		return "first-seen"
	}
}

// Marker is a rectangle to draw over a flagged duplicate, tagged with the
// durable cumulative count that drives styling downstream.
type Marker struct {
	Name           string
	Rect           scroll.Rect
	Count          int
	Classification Classification
}

// Statistics combines session and durable counters.
type Statistics struct {
	SessionNames        int
	SessionOccurrences  int
	DatabaseNames       int
	DatabaseOccurrences int
}

// NameCount pairs a normalized name with its session occurrence count.
type NameCount struct {
	Name  string
	Count int
}

// Ledger maintains session-scoped and durable occurrence counts per
// normalized name and classifies each observed occurrence. All methods are
// safe for concurrent use; administrative commands are atomic with respect
// to classification.
type Ledger struct {
	store  Store
	logger *logging.Logger

	mu              sync.Mutex
	sessionCounts   map[string]int
	positionHistory map[string][]scroll.Rect
	active          []Marker
}

// NewLedger creates a ledger backed by the given durable store.
func NewLedger(store Store) *Ledger {
	return &Ledger{
		store:           store,
		logger:          logging.NewLogger("tracker"),
		sessionCounts:   make(map[string]int),
		positionHistory: make(map[string][]scroll.Rect),
	}
}

// Classify processes one OCR pass. Detections are normalized and grouped by
// name before any duplicate decision, so arrival order within a pass never
// affects the outcome. A name is flagged when it was seen earlier this
// session or its durable count exceeds this pass's contribution. The
// returned slice is the full replacement marker set for this tick.
//
// A store error degrades gracefully: session-scoped duplicate detection
// keeps working, the error is returned for reporting, and durable counts
// fall back to session counts.
func (l *Ledger) Classify(detections []ocr.TextDetection, ev *scroll.Event) ([]Marker, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ev != nil {
		l.projectLocked(*ev)
	}

	if len(detections) == 0 {
		// Nothing on screen to highlight.
		l.active = nil
		return nil, nil
	}

	// Group positions by normalized name. Each position is an independent
	// marker candidate, but one entity for counting.
	groups := make(map[string][]scroll.Rect)
	var order []string
	for _, det := range detections {
		name := NormalizeName(det.Text)
		if name == "" {
			continue
		}
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], scroll.Rect{
			X:      det.X,
			Y:      det.Y,
			Width:  det.Width,
			Height: det.Height,
		})
	}

	// Markers surviving from previous ticks stay only when a scroll
	// repositioned them and their name was not re-detected; otherwise this
	// pass's detections fully describe the screen.
	var result []Marker
	if ev != nil {
		for _, m := range l.active {
			if _, redetected := groups[m.Name]; !redetected {
				result = append(result, m)
			}
		}
	}

	var storeErr error
	for _, name := range order {
		positions := groups[name]

		wasInSession := l.sessionCounts[name] > 0
		l.sessionCounts[name] += len(positions)

		if err := l.store.AddNameOccurrence(name, len(positions)); err != nil {
			storeErr = fmt.Errorf("failed to persist occurrence of %q: %w", name, err)
			l.logger.Error("durable store write failed", err)
		}

		total, err := l.store.GetNameCount(name)
		if err != nil {
			if storeErr == nil {
				storeErr = fmt.Errorf("failed to read count of %q: %w", name, err)
			}
			total = 0
		}

		l.recordPositionsLocked(name, positions)

		hasHistory := total > len(positions)
		if !wasInSession && !hasHistory {
			continue
		}

		class := ClassPersistedDuplicate
		if wasInSession {
			class = ClassSessionDuplicate
		}

		count := total
		if count == 0 {
			// Store unavailable, fall back to the session counter.
			count = l.sessionCounts[name]
		}

		for _, pos := range positions {
			result = append(result, Marker{
				Name:           name,
				Rect:           pos,
				Count:          count,
				Classification: class,
			})
		}

		l.logger.InfoWithContext("duplicate detected", map[string]interface{}{
			"name":  name,
			"count": count,
		})
	}

	l.active = result
	return result, storeErr
}

// ProjectMarkers applies a scroll displacement to the currently displayed
// markers without running classification, for ticks where the frame was
// visually unchanged but content shifted. Returns the new replacement set.
func (l *Ledger) ProjectMarkers(ev scroll.Event) []Marker {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.projectLocked(ev)
	out := make([]Marker, len(l.active))
	copy(out, l.active)
	return out
}

func (l *Ledger) projectLocked(ev scroll.Event) {
	adjusted := make([]Marker, 0, len(l.active))
	for _, m := range l.active {
		if moved, visible := scroll.AdjustRect(m.Rect, ev); visible {
			m.Rect = moved
			adjusted = append(adjusted, m)
		}
	}
	l.active = adjusted

	for name, positions := range l.positionHistory {
		l.positionHistory[name] = scroll.AdjustRects(positions, ev)
	}
}

func (l *Ledger) recordPositionsLocked(name string, positions []scroll.Rect) {
	history := append(l.positionHistory[name], positions...)
	if len(history) > positionHistoryCapacity {
		history = history[len(history)-positionHistoryCapacity:]
	}
	l.positionHistory[name] = history
}

// ResetSession clears session counters, position history, and displayed
// markers. Durable storage is untouched.
func (l *Ledger) ResetSession() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sessionCounts = make(map[string]int)
	l.positionHistory = make(map[string][]scroll.Rect)
	l.active = nil
	l.logger.Info("session counts reset")
}

// ClearAll resets the session and deletes all durable records.
// Irreversible.
func (l *Ledger) ClearAll() error {
	l.ResetSession()

	if err := l.store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear durable store: %w", err)
	}
	l.logger.Info("all session and durable data cleared")
	return nil
}

// GetStatistics returns combined session and durable counters. A store
// error leaves the durable fields zero and is returned for reporting.
func (l *Ledger) GetStatistics() (Statistics, error) {
	l.mu.Lock()
	stats := Statistics{
		SessionNames: len(l.sessionCounts),
	}
	for _, c := range l.sessionCounts {
		stats.SessionOccurrences += c
	}
	l.mu.Unlock()

	names, occurrences, err := l.store.GetStatistics()
	if err != nil {
		return stats, fmt.Errorf("failed to read store statistics: %w", err)
	}
	stats.DatabaseNames = names
	stats.DatabaseOccurrences = occurrences
	return stats, nil
}

// GetDuplicateNames lists names seen more than once this session, most
// frequent first.
func (l *Ledger) GetDuplicateNames() []NameCount {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []NameCount
	for name, count := range l.sessionCounts {
		if count > 1 {
			out = append(out, NameCount{Name: name, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ActiveMarkers returns a copy of the currently displayed marker set.
func (l *Ledger) ActiveMarkers() []Marker {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Marker, len(l.active))
	copy(out, l.active)
	return out
}
