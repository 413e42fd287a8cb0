package fabric

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/droverhq/drover/pkg/config"
)

// Purpose names the per-concern queues bound under the topic exchange
type Purpose string

const (
	PurposeDeployment Purpose = "deployment"
	PurposeCommand    Purpose = "command"
	PurposeStatus     Purpose = "status"
	PurposeAlert      Purpose = "alert"
	PurposeMetrics    Purpose = "metrics"
	PurposeWorkflow   Purpose = "workflow"
	PurposePriority   Purpose = "priority"
	PurposeBatch      Purpose = "batch"
	PurposeMonitoring Purpose = "monitoring"
)

// allPurposes is the declaration order at startup
var allPurposes = []Purpose{
	PurposeDeployment,
	PurposeCommand,
	PurposeStatus,
	PurposeAlert,
	PurposeMetrics,
	PurposeWorkflow,
	PurposePriority,
	PurposeBatch,
	PurposeMonitoring,
}

const (
	maxQueueLength = 100000
	// maxPriority matches the highest priority accepted on publish.
	maxPriority = 10
)

// QueueName returns the queue a purpose's routing keys land in
func QueueName(cfg config.Broker, p Purpose) string {
	return fmt.Sprintf("%s.%s", cfg.Exchange, p)
}

// bindingKey matches every routing key under the purpose prefix. The
// hash wildcard is deliberate: command keys carry two extra segments
// (command.deploy.{agentId}).
func bindingKey(p Purpose) string {
	return string(p) + ".#"
}

// queueTTL returns the per-purpose message TTL. High-churn telemetry
// expires fast; everything else uses the configured default.
func queueTTL(cfg config.Broker, p Purpose) time.Duration {
	switch p {
	case PurposeMetrics, PurposeMonitoring:
		return 5 * time.Minute
	case PurposeStatus:
		return 10 * time.Minute
	default:
		return cfg.MessageTTL
	}
}

// declareTopology sets up the exchange, the dead-letter pair, and all
// purpose queues. Every declaration is idempotent so this runs on each
// (re)connect.
func declareTopology(ch *amqp.Channel, cfg config.Broker) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	if err := ch.ExchangeDeclare(cfg.DLX, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLX %s: %w", cfg.DLX, err)
	}

	dlq := cfg.DLX + ".queue"
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}
	if err := ch.QueueBind(dlq, "", cfg.DLX, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	for _, p := range allPurposes {
		args := amqp.Table{
			"x-dead-letter-exchange": cfg.DLX,
			"x-message-ttl":          queueTTL(cfg, p).Milliseconds(),
			"x-max-length":           int64(maxQueueLength),
		}
		if p == PurposePriority {
			args["x-max-priority"] = int64(maxPriority)
		}

		name := QueueName(cfg, p)
		if _, err := ch.QueueDeclare(name, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
		if err := ch.QueueBind(name, bindingKey(p), cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", name, err)
		}
	}

	return nil
}

// AgentQueueName returns the per-agent delivery queue. Each agent
// consumes its own queue so addressed commands never compete across
// the fleet.
func AgentQueueName(cfg config.Broker, agentID string) string {
	return fmt.Sprintf("%s.agent.%s", cfg.Exchange, agentID)
}
