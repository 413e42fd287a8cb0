package events

import (
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventAgentConnected      EventType = "agent.connected"
	EventAgentDisconnected   EventType = "agent.disconnected"
	EventAgentRegistered     EventType = "agent.registered"
	EventServiceStateChanged EventType = "service.state-changed"
	EventWorkflowStarted     EventType = "workflow.started"
	EventWorkflowPhaseDone   EventType = "workflow.phase-done"
	EventWorkflowPaused      EventType = "workflow.paused"
	EventWorkflowResumed     EventType = "workflow.resumed"
	EventWorkflowSucceeded   EventType = "workflow.succeeded"
	EventWorkflowFailed      EventType = "workflow.failed"
	EventWorkflowCanceled    EventType = "workflow.canceled"
	EventWorkflowRolledBack  EventType = "workflow.rolled-back"
	EventGateBreached        EventType = "workflow.gate-breached"
)

// Event represents a control-plane event
type Event struct {
	ID         string
	Type       EventType
	Timestamp  time.Time
	AgentID    string
	WorkflowID string
	Service    string
	Message    string
	Metadata   map[string]string
}

// Subscriber is a channel that receives events
type Subscriber chan *Event

// Broker fans control-plane events out to in-process subscribers. The
// registry and the workflow engine publish here; the alert bus and the
// inventory recorder subscribe. Delivery is best-effort: a subscriber
// that stops draining loses events rather than blocking publishers.
type Broker struct {
	subscribers map[Subscriber][]EventType
	mu          sync.RWMutex
	eventCh     chan *Event
	stopCh      chan struct{}
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber][]EventType),
		eventCh:     make(chan *Event, 100), // Buffer up to 100 events
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's event distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe creates a subscription for all event types
func (b *Broker) Subscribe() Subscriber {
	return b.SubscribeTypes()
}

// SubscribeTypes creates a subscription limited to the given event
// types. No types means all events.
func (b *Broker) SubscribeTypes(types ...EventType) Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50) // Buffer per subscriber
	b.subscribers[sub] = types
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	close(sub)
}

// Publish publishes an event to all matching subscribers
func (b *Broker) Publish(event *Event) {
	// Set timestamp if not set
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.eventCh <- event:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case event := <-b.eventCh:
			b.broadcast(event)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub, types := range b.subscribers {
		if !matches(types, event.Type) {
			continue
		}
		select {
		case sub <- event:
		default:
			// Subscriber buffer full, skip
		}
	}
}

func matches(types []EventType, t EventType) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
