/*
Package events provides the in-process event bus for the coordinator.

The fleet registry and the workflow engine publish lifecycle events
here; the alert bus and the inventory recorder subscribe. The broker is
deliberately in-memory and lossy under subscriber backpressure: events
that must survive the process go through the message fabric instead.

# Architecture

	┌───────────────────── EVENT BROKER ──────────────────────┐
	│                                                          │
	│  registry ──┐                                            │
	│             ├──► event channel (buffer: 100)             │
	│  engine  ───┘            │                               │
	│                          ▼                               │
	│                   broadcast loop                         │
	│                          │                               │
	│          ┌───────────────┼───────────────┐               │
	│          ▼               ▼               ▼               │
	│      alert bus       inventory       api watchers        │
	│      (buffer: 50 per subscriber, non-blocking)           │
	└──────────────────────────────────────────────────────────┘

Subscriptions may be filtered by event type; an empty filter receives
everything.

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.SubscribeTypes(events.EventAgentDisconnected)
	go func() {
	    for ev := range sub {
	        // react
	    }
	}()

	broker.Publish(&events.Event{
	    Type:    events.EventAgentDisconnected,
	    AgentID: "web-01",
	    Message: "missed heartbeat window",
	})
*/
package events
