package events

import (
	"time"

	"namespotter.com/namespotter-go/internal/scroll"
	"namespotter.com/namespotter-go/internal/tracker"
)

// EventType identifies the kind of event flowing through the bus
type EventType string

const (
	// EventMarkersUpdated carries the full replacement marker set for the
	// overlay; an empty set means clear everything.
	EventMarkersUpdated EventType = "markers_updated"

	// EventScrollDetected fires once per accepted scroll event.
	EventScrollDetected EventType = "scroll_detected"

	// EventScanCompleted fires at the end of every completed tick.
	EventScanCompleted EventType = "scan_completed"

	// EventStoreError reports a durable-store failure; cross-session
	// duplicate detection is degraded until it clears.
	EventStoreError EventType = "store_error"

	// EventSessionReset fires when session data is cleared.
	EventSessionReset EventType = "session_reset"
)

// Event is a single message published on the bus
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// MarkersUpdatedData is the payload of EventMarkersUpdated
type MarkersUpdatedData struct {
	Markers []tracker.Marker
}

// ScrollDetectedData is the payload of EventScrollDetected
type ScrollDetectedData struct {
	Event scroll.Event
}

// ScanCompletedData is the payload of EventScanCompleted
type ScanCompletedData struct {
	Detections int
	Duplicates int
	Duration   time.Duration
}

// StoreErrorData is the payload of EventStoreError
type StoreErrorData struct {
	Err error
}

// EventHandler processes one event
type EventHandler func(Event)

// SubscriptionID identifies a registered handler
type SubscriptionID uint64
