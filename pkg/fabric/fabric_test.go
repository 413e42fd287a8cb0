package fabric

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/config"
)

func TestQueueNaming(t *testing.T) {
	cfg := config.Default().Broker

	assert.Equal(t, "drover.deployment", QueueName(cfg, PurposeDeployment))
	assert.Equal(t, "drover.priority", QueueName(cfg, PurposePriority))
	assert.Equal(t, "drover.status", QueueName(cfg, PurposeStatus))
	assert.Equal(t, "drover.agent.a-17", AgentQueueName(cfg, "a-17"))
}

func TestBindingKeyMatchesNestedRoutingKeys(t *testing.T) {
	// Command routing keys carry operation and agent segments; the
	// binding must use the multi-segment wildcard.
	assert.Equal(t, "command.#", bindingKey(PurposeCommand))
	assert.Equal(t, "alert.#", bindingKey(PurposeAlert))
}

func TestQueueTTL(t *testing.T) {
	cfg := config.Default().Broker
	cfg.MessageTTL = 30 * time.Minute

	tests := []struct {
		name    string
		purpose Purpose
		want    time.Duration
	}{
		{name: "metrics expire fast", purpose: PurposeMetrics, want: 5 * time.Minute},
		{name: "monitoring expires fast", purpose: PurposeMonitoring, want: 5 * time.Minute},
		{name: "status bounded", purpose: PurposeStatus, want: 10 * time.Minute},
		{name: "commands use default", purpose: PurposeCommand, want: 30 * time.Minute},
		{name: "alerts use default", purpose: PurposeAlert, want: 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queueTTL(cfg, tt.purpose))
		})
	}
}

func TestRoutingKeys(t *testing.T) {
	assert.Equal(t, "command.deploy.agent-1", CommandKey("deploy", "agent-1"))
	assert.Equal(t, "status.wf-9", StatusKey("wf-9"))
	assert.Equal(t, "alert.critical.deployment", AlertKey("critical", "deployment"))
	assert.Equal(t, "workflow.started", WorkflowKey("started"))
	assert.Equal(t, "metrics.agent-1", MetricsKey("agent-1"))
	assert.Equal(t, "priority.command.agent-1", PriorityKey("agent-1"))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "command", prefix("command.deploy.agent-1"))
	assert.Equal(t, "status", prefix("status.wf-9"))
	assert.Equal(t, "bare", prefix("bare"))
}

func TestPublishingDefaults(t *testing.T) {
	pub := publishing([]byte(`{}`), nil)

	assert.Equal(t, "application/json", pub.ContentType)
	assert.EqualValues(t, 2, pub.DeliveryMode) // persistent
	assert.NotEmpty(t, pub.MessageId)
	assert.Empty(t, pub.Expiration)
}

func TestPublishingProps(t *testing.T) {
	pub := publishing([]byte(`{}`), &Props{
		Priority:      7,
		CorrelationID: "wf-1",
		Expiration:    90 * time.Second,
		MessageID:     "fixed-id",
		Headers:       map[string]interface{}{"attempt": 2},
	})

	assert.EqualValues(t, 7, pub.Priority)
	assert.Equal(t, "wf-1", pub.CorrelationId)
	assert.Equal(t, "90000", pub.Expiration)
	assert.Equal(t, "fixed-id", pub.MessageId)
	assert.Equal(t, 2, pub.Headers["attempt"])
}

func TestBatchError(t *testing.T) {
	err := &BatchError{Outcomes: []BatchOutcome{
		{Index: 2, Err: errors.New("rejected by broker")},
		{Index: 5, Err: errors.New("channel closed")},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "2 message(s)")
	assert.Contains(t, msg, "message 2: rejected by broker")
	assert.Contains(t, msg, "message 5: channel closed")
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "ack", Ack.String())
	assert.Equal(t, "requeue", Requeue.String())
	assert.Equal(t, "dead", Dead.String())
}

func TestRateLimiterConfiguration(t *testing.T) {
	cfg := config.Default().Broker
	cfg.MaxMessagesPerSecond = 100
	f := New(cfg)
	require.NotNil(t, f.limiter)
	assert.EqualValues(t, 100, f.limiter.Limit())

	cfg.MaxMessagesPerSecond = 0
	f = New(cfg)
	assert.Nil(t, f.limiter)
}
