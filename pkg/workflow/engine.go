package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/alerts"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/metrics"
	"github.com/droverhq/drover/pkg/statestore"
	"github.com/droverhq/drover/pkg/strategy"
	"github.com/droverhq/drover/pkg/types"
)

// Publisher is the slice of the message fabric the engine needs
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}, props *fabric.Props) error
}

// FleetView is the slice of the fleet registry the engine needs
type FleetView interface {
	IsHealthy(agentID string) bool
}

// ControlAction is an external lifecycle request against a workflow
type ControlAction string

const (
	ControlPause  ControlAction = "pause"
	ControlResume ControlAction = "resume"
	ControlCancel ControlAction = "cancel"
)

// pendingEntry is the persisted per-command record. Written before the
// command is published so a crashed engine can reconcile.
type pendingEntry struct {
	CommandID string                 `json:"commandId"`
	AgentID   string                 `json:"agentId"`
	PhaseID   string                 `json:"phaseId"`
	StepID    string                 `json:"stepId"`
	Attempt   int                    `json:"attempt"`
	State     types.ServerStepStatus `json:"state"`
	IssuedAt  time.Time              `json:"issuedAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// Engine executes planned workflows deterministically and
// crash-safely. One engine instance may run many workflows; a
// workflow runs under exactly one instance at a time, enforced by a
// state-store lease renewed each tick.
type Engine struct {
	cfg        config.Workflow
	planners   *strategy.Set
	store      *statestore.Store
	publisher  Publisher
	fleet      FleetView
	broker     *events.Broker
	alertBus   *alerts.Bus
	instanceID string
	logger     zerolog.Logger

	mu      sync.Mutex
	running map[string]*run

	// globalSlots caps in-flight commands across all workflows.
	globalSlots chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an engine. Call Start to adopt orphaned workflows and
// begin accepting work.
func New(cfg config.Workflow, planners *strategy.Set, store *statestore.Store, publisher Publisher, fleet FleetView, broker *events.Broker, alertBus *alerts.Bus) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		cfg:         cfg,
		planners:    planners,
		store:       store,
		publisher:   publisher,
		fleet:       fleet,
		broker:      broker,
		alertBus:    alertBus,
		instanceID:  uuid.New().String(),
		logger:      log.WithComponent("workflow"),
		running:     make(map[string]*run),
		globalSlots: make(chan struct{}, cfg.MaxInflightGlobal),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start adopts non-terminal workflows whose lease has expired and
// resumes them from persisted state
func (e *Engine) Start(ctx context.Context) error {
	ids, err := e.store.SMembers(ctx, workflowIndexKey)
	if err != nil {
		return fmt.Errorf("failed to scan workflows: %w", err)
	}

	for _, id := range ids {
		wf, err := e.load(ctx, id)
		if err != nil {
			e.logger.Warn().Err(err).Str("workflow_id", id).Msg("Failed to load workflow during adoption scan")
			continue
		}
		if wf == nil || wf.State.Terminal() {
			continue
		}

		acquired, err := e.store.AcquireLease(ctx, leaseResource(id), e.instanceID, e.cfg.LeaseTTL)
		if err != nil {
			return err
		}
		if !acquired {
			// Another instance holds it.
			continue
		}

		wf.Attempt++
		e.logger.Info().
			Str("workflow_id", id).
			Int("attempt", wf.Attempt).
			Str("state", string(wf.State)).
			Msg("Adopting orphaned workflow")
		e.spawn(wf, true)
	}
	return nil
}

// Stop cancels all runners and waits for them to park
func (e *Engine) Stop() {
	e.cancel()
	e.wg.Wait()
}

// StartDeployment plans and launches a workflow, returning its id
func (e *Engine) StartDeployment(ctx context.Context, req *types.WorkflowRequest) (string, error) {
	wf := &types.Workflow{
		ID:            uuid.New().String(),
		ServiceName:   req.ServiceName,
		TargetVersion: req.TargetVersion,
		Strategy:      req.Strategy,
		Package:       req.Package,
		Initiator:     req.Initiator,
		Priority:      req.Priority,
		CreatedAt:     time.Now().UTC(),
		State:         types.WorkflowStatePending,
		Attempt:       1,
		Metrics: types.WorkflowMetrics{
			Succeeded: map[string]int{},
			Failed:    map[string]int{},
		},
	}
	if err := e.persist(ctx, wf); err != nil {
		return "", err
	}

	wf.State = types.WorkflowStatePlanning
	if err := e.persist(ctx, wf); err != nil {
		return "", err
	}

	phases, err := e.planners.Plan(req)
	if err != nil {
		wf.State = types.WorkflowStateFailed
		wf.LastError = types.FaultFrom(err)
		_ = e.persist(ctx, wf)
		return "", err
	}
	estimate, err := e.planners.Estimate(req)
	if err != nil {
		wf.State = types.WorkflowStateFailed
		wf.LastError = types.FaultFrom(err)
		_ = e.persist(ctx, wf)
		return "", err
	}

	wf.Phases = phases
	wf.Deadline = time.Now().UTC().Add(estimate)
	wf.State = types.WorkflowStateRunning
	if err := e.persist(ctx, wf); err != nil {
		return "", err
	}

	acquired, err := e.store.AcquireLease(ctx, leaseResource(wf.ID), e.instanceID, e.cfg.LeaseTTL)
	if err != nil {
		return "", err
	}
	if !acquired {
		return "", types.NewFault(types.ErrInternal, "workflow %s lease unexpectedly held", wf.ID)
	}

	e.broker.Publish(&events.Event{
		Type:       events.EventWorkflowStarted,
		WorkflowID: wf.ID,
		Service:    wf.ServiceName,
	})
	e.spawn(wf, false)
	return wf.ID, nil
}

// Control applies an external pause/resume/cancel to a workflow owned
// by this instance
func (e *Engine) Control(ctx context.Context, id string, action ControlAction) error {
	switch action {
	case ControlPause, ControlResume, ControlCancel:
	default:
		return types.NewFault(types.ErrValidationFailed, "unknown control action %q", action)
	}

	e.mu.Lock()
	r, ok := e.running[id]
	e.mu.Unlock()
	if !ok {
		wf, err := e.load(ctx, id)
		if err != nil {
			return err
		}
		if wf == nil {
			return types.NewFault(types.ErrValidationFailed, "workflow %s not found", id)
		}
		if wf.State.Terminal() {
			return types.NewFault(types.ErrRejected, "workflow %s is %s", id, wf.State)
		}
		return types.NewFault(types.ErrRejected, "workflow %s is not owned by this instance", id)
	}

	select {
	case r.controlCh <- action:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return types.NewFault(types.ErrTimeout, "workflow %s did not accept %s", id, action)
	}
}

// HandleStatus routes one status update to its workflow runner.
// Unknown or stale updates are dropped: redelivery is expected.
func (e *Engine) HandleStatus(u *types.StatusUpdate) {
	e.mu.Lock()
	r, ok := e.running[u.WorkflowID]
	e.mu.Unlock()
	if !ok {
		return
	}
	select {
	case r.statusCh <- *u:
	default:
		e.logger.Warn().
			Str("workflow_id", u.WorkflowID).
			Str("command_id", u.CommandID).
			Msg("Status channel full, dropping update for broker redelivery")
	}
}

// Status returns the externally visible view of a workflow
func (e *Engine) Status(ctx context.Context, id string) (*types.WorkflowStatus, error) {
	wf, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, types.NewFault(types.ErrValidationFailed, "workflow %s not found", id)
	}
	return statusView(wf), nil
}

// List returns workflow views. An empty state filter returns all
// non-terminal workflows.
func (e *Engine) List(ctx context.Context, state types.WorkflowState) ([]*types.WorkflowStatus, error) {
	ids, err := e.store.SMembers(ctx, workflowIndexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	var out []*types.WorkflowStatus
	for _, id := range ids {
		wf, err := e.load(ctx, id)
		if err != nil || wf == nil {
			continue
		}
		if state == "" {
			if wf.State.Terminal() {
				continue
			}
		} else if wf.State != state {
			continue
		}
		out = append(out, statusView(wf))
	}
	return out, nil
}

// InstanceID identifies this engine for lease ownership
func (e *Engine) InstanceID() string {
	return e.instanceID
}

func (e *Engine) spawn(wf *types.Workflow, resumed bool) {
	r := &run{
		engine:    e,
		wf:        wf,
		resumed:   resumed,
		statusCh:  make(chan types.StatusUpdate, 256),
		controlCh: make(chan ControlAction, 4),
		logger:    e.logger.With().Str("workflow_id", wf.ID).Logger(),
	}

	e.mu.Lock()
	e.running[wf.ID] = r
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			delete(e.running, wf.ID)
			e.mu.Unlock()
		}()
		r.execute(e.ctx)
	}()
}

func (e *Engine) persist(ctx context.Context, wf *types.Workflow) error {
	wf.UpdatedAt = time.Now().UTC()
	if err := e.store.Set(ctx, workflowKey(wf.ID), wf, 0); err != nil {
		return err
	}
	if err := e.store.SAdd(ctx, workflowIndexKey, wf.ID); err != nil {
		return err
	}
	e.refreshStateGauges(ctx)
	return nil
}

func (e *Engine) refreshStateGauges(ctx context.Context) {
	ids, err := e.store.SMembers(ctx, workflowIndexKey)
	if err != nil {
		return
	}
	counts := map[types.WorkflowState]int{}
	for _, id := range ids {
		wf, err := e.load(ctx, id)
		if err != nil || wf == nil {
			continue
		}
		counts[wf.State]++
	}
	for _, s := range []types.WorkflowState{
		types.WorkflowStatePending, types.WorkflowStatePlanning, types.WorkflowStateRunning,
		types.WorkflowStatePaused, types.WorkflowStateSucceeded, types.WorkflowStateFailed,
		types.WorkflowStateRollingBack, types.WorkflowStateRolledBack, types.WorkflowStateCanceled,
	} {
		metrics.WorkflowsTotal.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

func (e *Engine) load(ctx context.Context, id string) (*types.Workflow, error) {
	var wf types.Workflow
	found, err := e.store.Get(ctx, workflowKey(id), &wf)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &wf, nil
}

func (e *Engine) loadPending(ctx context.Context, workflowID string) (map[string]*pendingEntry, error) {
	keys, err := e.store.Keys(ctx, pendingPattern(workflowID))
	if err != nil {
		return nil, err
	}
	raw, err := e.store.GetMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*pendingEntry, len(raw))
	for _, v := range raw {
		var entry pendingEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			continue
		}
		out[entry.CommandID] = &entry
	}
	return out, nil
}

func statusView(wf *types.Workflow) *types.WorkflowStatus {
	view := &types.WorkflowStatus{
		ID:         wf.ID,
		State:      wf.State,
		PhaseIndex: wf.CurrentPhaseIndex,
		Servers:    map[string]types.ServerStepStatus{},
		LastError:  wf.LastError,
		CreatedAt:  wf.CreatedAt,
		UpdatedAt:  wf.UpdatedAt,
		Deadline:   wf.Deadline,
	}
	if wf.CurrentPhaseIndex < len(wf.Phases) {
		phase := wf.Phases[wf.CurrentPhaseIndex]
		view.CurrentPhase = phase.Name
		for _, step := range phase.Steps {
			for server, status := range step.ServerStatus {
				view.Servers[server] = status
			}
		}
	}
	return view
}
