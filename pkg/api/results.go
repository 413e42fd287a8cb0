package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/types"
)

// resultWaiter correlates synchronous command results arriving on the
// workflow queue back to the RPC handler waiting for them. Results
// nobody waits for are stale (the caller timed out) and are dropped.
type resultWaiter struct {
	fab    *fabric.Fabric
	logger zerolog.Logger

	mu      sync.Mutex
	waiting map[string]chan *types.CommandResult
}

func newResultWaiter(fab *fabric.Fabric) *resultWaiter {
	return &resultWaiter{
		fab:     fab,
		logger:  log.WithComponent("command-results"),
		waiting: make(map[string]chan *types.CommandResult),
	}
}

func (w *resultWaiter) Start(ctx context.Context) {
	w.fab.Consume(ctx, w.fab.QueueFor(fabric.PurposeWorkflow), w.handle)
}

func (w *resultWaiter) expect(commandID string) <-chan *types.CommandResult {
	ch := make(chan *types.CommandResult, 1)
	w.mu.Lock()
	w.waiting[commandID] = ch
	w.mu.Unlock()
	return ch
}

func (w *resultWaiter) forget(commandID string) {
	w.mu.Lock()
	delete(w.waiting, commandID)
	w.mu.Unlock()
}

func (w *resultWaiter) handle(d fabric.Delivery) fabric.Verdict {
	var result types.CommandResult
	if err := json.Unmarshal(d.Body, &result); err != nil {
		w.logger.Warn().Err(err).Str("message_id", d.MessageID).Msg("Malformed command result")
		return fabric.Dead
	}

	w.mu.Lock()
	ch, ok := w.waiting[result.CommandID]
	w.mu.Unlock()
	if ok {
		select {
		case ch <- &result:
		default:
		}
	}
	return fabric.Ack
}
