package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/types"
)

// AgentSource resolves the live view of an agent. The fleet registry
// satisfies this.
type AgentSource interface {
	Get(agentID string) *types.Agent
}

// WorkflowSource resolves the current view of a workflow. The
// workflow engine satisfies this.
type WorkflowSource interface {
	Status(ctx context.Context, id string) (*types.WorkflowStatus, error)
}

// Recorder keeps the inventory current by following the event broker:
// fleet events refresh the persisted agent snapshot, terminal workflow
// events append to the deployment history.
type Recorder struct {
	inv       *Inventory
	agents    AgentSource
	workflows WorkflowSource
	logger    zerolog.Logger
}

// NewRecorder wires a recorder over the inventory
func NewRecorder(inv *Inventory, agents AgentSource, workflows WorkflowSource) *Recorder {
	return &Recorder{
		inv:       inv,
		agents:    agents,
		workflows: workflows,
		logger:    log.WithComponent("inventory"),
	}
}

// Watch consumes broker events until ctx is canceled
func (r *Recorder) Watch(ctx context.Context, broker *events.Broker) {
	sub := broker.SubscribeTypes(
		events.EventAgentRegistered,
		events.EventAgentConnected,
		events.EventAgentDisconnected,
		events.EventServiceStateChanged,
		events.EventWorkflowSucceeded,
		events.EventWorkflowFailed,
		events.EventWorkflowCanceled,
		events.EventWorkflowRolledBack,
	)
	defer broker.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, ev *events.Event) {
	switch ev.Type {
	case events.EventAgentRegistered, events.EventAgentConnected,
		events.EventAgentDisconnected, events.EventServiceStateChanged:
		r.snapshotAgent(ev.AgentID)
	case events.EventWorkflowSucceeded, events.EventWorkflowFailed,
		events.EventWorkflowCanceled, events.EventWorkflowRolledBack:
		r.recordWorkflow(ctx, ev)
	}
}

func (r *Recorder) snapshotAgent(agentID string) {
	agent := r.agents.Get(agentID)
	if agent == nil {
		return
	}
	if err := r.inv.SaveAgent(agent); err != nil {
		r.logger.Warn().Err(err).Str("agent_id", agentID).Msg("Failed to persist agent snapshot")
	}
}

func (r *Recorder) recordWorkflow(ctx context.Context, ev *events.Event) {
	rec := &WorkflowRecord{
		ID:         ev.WorkflowID,
		Service:    ev.Service,
		State:      string(stateForEvent(ev.Type)),
		Error:      ev.Message,
		FinishedAt: time.Now().UTC(),
	}

	// The state store view enriches the record; losing it degrades
	// to the event payload rather than dropping the record.
	if st, err := r.workflows.Status(ctx, ev.WorkflowID); err == nil {
		rec.StartedAt = st.CreatedAt
		rec.FinishedAt = st.UpdatedAt
		rec.ServersTotal = len(st.Servers)
		for _, step := range st.Servers {
			switch step {
			case types.ServerStepSucceeded:
				rec.ServersSucceeded++
			case types.ServerStepFailed:
				rec.ServersFailed++
			}
		}
	}

	if err := r.inv.RecordWorkflow(rec); err != nil {
		r.logger.Warn().Err(err).Str("workflow_id", ev.WorkflowID).Msg("Failed to record workflow")
	}
}

func stateForEvent(t events.EventType) types.WorkflowState {
	switch t {
	case events.EventWorkflowSucceeded:
		return types.WorkflowStateSucceeded
	case events.EventWorkflowFailed:
		return types.WorkflowStateFailed
	case events.EventWorkflowCanceled:
		return types.WorkflowStateCanceled
	case events.EventWorkflowRolledBack:
		return types.WorkflowStateRolledBack
	}
	return types.WorkflowStateFailed
}
