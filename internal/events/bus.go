package events

import (
	"sync"
	"time"

	"namespotter.com/namespotter-go/internal/logging"
)

// subscription represents a single event subscription
type subscription struct {
	id      SubscriptionID
	handler EventHandler
}

// Bus is an asynchronous publish/subscribe hub between the capture core and
// presentation layers
type Bus struct {
	subscribers map[EventType][]subscription
	mu          sync.RWMutex

	eventQueue chan Event
	stopCh     chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once

	nextSubID SubscriptionID
	subMu     sync.Mutex

	logger *logging.Logger
}

// NewBus creates a new event bus with the specified buffer size
func NewBus(bufferSize int) *Bus {
	bus := &Bus{
		subscribers: make(map[EventType][]subscription),
		eventQueue:  make(chan Event, bufferSize),
		stopCh:      make(chan struct{}),
		nextSubID:   1,
		logger:      logging.NewLogger("events"),
	}

	bus.wg.Add(1)
	go bus.processEvents()

	return bus
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subMu.Lock()
	subID := b.nextSubID
	b.nextSubID++
	b.subMu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{
		id:      subID,
		handler: handler,
	})

	return subID
}

// Unsubscribe removes a subscription by ID
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub.id == id {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all subscribers (blocking until queued)
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.eventQueue <- event:
	case <-b.stopCh:
		b.logger.DebugWithContext("dropped event, bus stopped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// Stop stops the event bus and drains remaining events
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
	b.wg.Wait()
}

// processEvents runs in a goroutine and dispatches events to handlers
func (b *Bus) processEvents() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventQueue:
			b.dispatch(event)

		case <-b.stopCh:
			// Drain remaining events before stopping
			for {
				select {
				case event := <-b.eventQueue:
					b.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

// dispatch sends an event to all registered handlers
func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	subs := b.subscribers[event.Type]
	handlers := make([]EventHandler, len(subs))
	for i, sub := range subs {
		handlers[i] = sub.handler
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.safeHandlerCall(handler, event)
	}
}

// safeHandlerCall calls a handler with panic recovery
func (b *Bus) safeHandlerCall(handler EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorWithContext("handler panic", nil, map[string]interface{}{
				"type":  event.Type,
				"panic": r,
			})
		}
	}()

	handler(event)
}

// SubscriberCount returns the number of subscribers for an event type
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subscribers[eventType])
}
