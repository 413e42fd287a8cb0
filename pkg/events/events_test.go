package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, sub Subscriber) *Event {
	t.Helper()
	select {
	case ev := <-sub:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	a := broker.Subscribe()
	b := broker.Subscribe()
	assert.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(&Event{Type: EventAgentConnected, AgentID: "web-01"})

	assert.Equal(t, "web-01", recv(t, a).AgentID)
	assert.Equal(t, "web-01", recv(t, b).AgentID)
}

func TestTypeFilteredSubscription(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.SubscribeTypes(EventWorkflowFailed, EventWorkflowRolledBack)

	broker.Publish(&Event{Type: EventAgentConnected, AgentID: "web-01"})
	broker.Publish(&Event{Type: EventWorkflowFailed, WorkflowID: "wf-1"})

	ev := recv(t, sub)
	require.Equal(t, EventWorkflowFailed, ev.Type)
	assert.Equal(t, "wf-1", ev.WorkflowID)

	select {
	case extra := <-sub:
		t.Fatalf("unexpected event: %s", extra.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimestampDefaulted(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	broker.Publish(&Event{Type: EventWorkflowStarted, WorkflowID: "wf-1"})

	ev := recv(t, sub)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	broker.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)
	assert.Equal(t, 0, broker.SubscriberCount())
}
