package workflow

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/types"
)

// StatusConsumer feeds the drover.status queue into the engine.
// Decoding failures are dead-lettered; everything else is acked,
// because the engine treats status updates as idempotent.
type StatusConsumer struct {
	fabric *fabric.Fabric
	engine *Engine
	logger zerolog.Logger
}

func NewStatusConsumer(f *fabric.Fabric, e *Engine) *StatusConsumer {
	return &StatusConsumer{
		fabric: f,
		engine: e,
		logger: log.WithComponent("status-consumer"),
	}
}

// Start begins consuming; the underlying consumer survives broker
// reconnects and stops when ctx is canceled
func (c *StatusConsumer) Start(ctx context.Context) {
	c.fabric.Consume(ctx, c.fabric.QueueFor(fabric.PurposeStatus), c.handle)
}

func (c *StatusConsumer) handle(d fabric.Delivery) fabric.Verdict {
	var u types.StatusUpdate
	if err := json.Unmarshal(d.Body, &u); err != nil {
		c.logger.Warn().Err(err).Str("message_id", d.MessageID).Msg("Malformed status update")
		return fabric.Dead
	}
	if u.CommandID == "" || u.WorkflowID == "" {
		c.logger.Warn().Str("message_id", d.MessageID).Msg("Status update missing identifiers")
		return fabric.Dead
	}
	c.engine.HandleStatus(&u)
	return fabric.Ack
}
