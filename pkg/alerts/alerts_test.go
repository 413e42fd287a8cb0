package alerts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/types"
)

type capturedPublish struct {
	routingKey string
	alert      types.Alert
}

type fakePublisher struct {
	mu        sync.Mutex
	published []capturedPublish
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, payload interface{}, _ *fabric.Props) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, capturedPublish{
		routingKey: routingKey,
		alert:      *(payload.(*types.Alert)),
	})
	return nil
}

func (f *fakePublisher) all() []capturedPublish {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]capturedPublish, len(f.published))
	copy(out, f.published)
	return out
}

func deployFailure(servers ...string) *types.Alert {
	return &types.Alert{
		Severity: types.AlertCritical,
		Category: types.AlertCategoryDeployment,
		Title:    "deployment failed",
		Message:  "wave 2 exceeded failure threshold",
		Service:  "payment-api",
		Servers:  servers,
	}
}

func TestPublishAlertRouting(t *testing.T) {
	pub := &fakePublisher{}
	bus := New(pub, 5*time.Minute)

	sent, err := bus.PublishAlert(context.Background(), deployFailure("web-01"))
	require.NoError(t, err)
	assert.True(t, sent)

	got := pub.all()
	require.Len(t, got, 1)
	assert.Equal(t, "alert.critical.deployment", got[0].routingKey)
	assert.NotEmpty(t, got[0].alert.ID)
	assert.False(t, got[0].alert.CreatedAt.IsZero())
}

func TestSeverityDefaulted(t *testing.T) {
	pub := &fakePublisher{}
	bus := New(pub, 5*time.Minute)

	_, err := bus.PublishAlert(context.Background(), &types.Alert{
		Category: types.AlertCategoryFleet,
		Title:    "something",
	})
	require.NoError(t, err)

	got := pub.all()
	require.Len(t, got, 1)
	assert.Equal(t, types.AlertInfo, got[0].alert.Severity)
}

func TestIdenticalAlertSuppressed(t *testing.T) {
	pub := &fakePublisher{}
	bus := New(pub, 5*time.Minute)
	ctx := context.Background()

	sent, err := bus.PublishAlert(ctx, deployFailure("web-01"))
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = bus.PublishAlert(ctx, deployFailure("web-01"))
	require.NoError(t, err)
	assert.False(t, sent)

	// A different server set is a different condition.
	sent, err = bus.PublishAlert(ctx, deployFailure("web-02"))
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Len(t, pub.all(), 2)
}

func TestSuppressionExpires(t *testing.T) {
	pub := &fakePublisher{}
	bus := New(pub, 30*time.Millisecond)
	ctx := context.Background()

	_, err := bus.PublishAlert(ctx, deployFailure("web-01"))
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	sent, err := bus.PublishAlert(ctx, deployFailure("web-01"))
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestRecoveryBypassesAndClearsSuppression(t *testing.T) {
	pub := &fakePublisher{}
	bus := New(pub, 5*time.Minute)
	ctx := context.Background()

	_, err := bus.PublishAlert(ctx, deployFailure("web-01"))
	require.NoError(t, err)

	recovery := deployFailure("web-01")
	recovery.Severity = types.AlertInfo
	recovery.Recovery = true
	sent, err := bus.PublishAlert(ctx, recovery)
	require.NoError(t, err)
	assert.True(t, sent)

	// The condition recurring after recovery fires again immediately.
	sent, err = bus.PublishAlert(ctx, deployFailure("web-01"))
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Len(t, pub.all(), 3)
}

func TestWatchConvertsFleetEvents(t *testing.T) {
	pub := &fakePublisher{}
	bus := New(pub, 5*time.Minute)

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Watch(ctx, broker)

	// Give the watcher a moment to subscribe.
	time.Sleep(20 * time.Millisecond)

	broker.Publish(&events.Event{Type: events.EventAgentDisconnected, AgentID: "web-01"})
	broker.Publish(&events.Event{Type: events.EventAgentConnected, AgentID: "web-01"})

	require.Eventually(t, func() bool {
		return len(pub.all()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	got := pub.all()
	assert.Equal(t, "alert.warning.fleet", got[0].routingKey)
	assert.False(t, got[0].alert.Recovery)
	assert.Equal(t, "alert.info.fleet", got[1].routingKey)
	assert.True(t, got[1].alert.Recovery)
}
