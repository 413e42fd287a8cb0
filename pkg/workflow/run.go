package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/metrics"
	"github.com/droverhq/drover/pkg/types"
)

// run drives one workflow through its phases. All state mutation
// happens on this goroutine; status updates and control actions arrive
// over channels.
type run struct {
	engine    *Engine
	wf        *types.Workflow
	resumed   bool
	statusCh  chan types.StatusUpdate
	controlCh chan ControlAction
	logger    zerolog.Logger

	canceled  bool
	pauseWant bool
	leaseLost bool
}

func (r *run) execute(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if r.wf.Metrics.Succeeded == nil {
		r.wf.Metrics.Succeeded = map[string]int{}
	}
	if r.wf.Metrics.Failed == nil {
		r.wf.Metrics.Failed = map[string]int{}
	}

	go r.leaseLoop(ctx, cancel)
	defer func() {
		if !r.leaseLost {
			_ = r.engine.store.ReleaseLease(context.Background(), leaseResource(r.wf.ID), r.engine.instanceID)
		}
	}()

	if r.resumed {
		if len(r.wf.Phases) == 0 {
			// A crash between the planning persist and the phase persist
			// leaves a non-terminal record with no plan behind it.
			r.fail(ctx, types.NewFault(types.ErrInternal, "workflow has no planned phases"))
			return
		}
		// Adopted at a manual gate: park again and wait for the
		// operator instead of rolling into the next phase.
		r.pauseWant = r.wf.State == types.WorkflowStatePaused
	}

	for r.wf.CurrentPhaseIndex < len(r.wf.Phases) {
		if ctx.Err() != nil {
			// Shutdown or lost lease: leave persisted state for the
			// next owner, do not mark terminal.
			return
		}
		r.drainControl()
		if r.canceled {
			r.finish(ctx, types.WorkflowStateCanceled, types.NewFault(types.ErrCanceled, "canceled by operator"))
			return
		}
		if r.pauseWant {
			if !r.pause(ctx) {
				return
			}
		}
		if !r.wf.Deadline.IsZero() && time.Now().After(r.wf.Deadline) {
			r.fail(ctx, types.NewFault(types.ErrTimeout, "workflow deadline exceeded"))
			return
		}

		phase := r.wf.Phases[r.wf.CurrentPhaseIndex]
		fault := r.runPhase(ctx, phase)
		if ctx.Err() != nil {
			return
		}
		if r.canceled {
			r.finish(ctx, types.WorkflowStateCanceled, types.NewFault(types.ErrCanceled, "canceled by operator"))
			return
		}

		if fault != nil {
			if phase.Kind == types.PhaseKindCleanup {
				// Cleanup is best-effort: record and move on.
				r.logger.Warn().Str("phase", phase.ID).Err(fault).Msg("Cleanup phase failed, continuing")
				phase.State = types.PhaseStateFailed
			} else {
				phase.State = types.PhaseStateFailed
				r.wf.LastError = fault
				_ = r.engine.persist(ctx, r.wf)
				r.alertGateBreach(ctx, phase, fault)
				if phase.RollbackOnFailure && !r.wf.RollbackIssued {
					r.rollback(ctx, fault)
				} else {
					r.fail(ctx, fault)
				}
				return
			}
		} else {
			phase.State = types.PhaseStateSucceeded
		}
		phase.FinishedAt = time.Now().UTC()

		r.wf.CurrentPhaseIndex++
		if err := r.engine.persist(ctx, r.wf); err != nil {
			r.logger.Error().Err(err).Msg("Failed to persist phase advance")
		}
		r.engine.broker.Publish(&events.Event{
			Type:       events.EventWorkflowPhaseDone,
			WorkflowID: r.wf.ID,
			Service:    r.wf.ServiceName,
			Message:    phase.ID,
		})

		if fault == nil && phase.Gate.ManualResume && r.wf.CurrentPhaseIndex < len(r.wf.Phases) {
			r.pauseWant = true
		}
		if fault == nil && phase.PostDelay > 0 {
			if !r.sleep(ctx, phase.PostDelay) {
				return
			}
		}
	}

	r.finish(ctx, types.WorkflowStateSucceeded, nil)
}

// leaseLoop renews the workflow lease each tick; losing it halts the
// runner so another instance can adopt
func (r *run) leaseLoop(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(r.engine.cfg.LeaseRenew)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := r.engine.store.RenewLease(ctx, leaseResource(r.wf.ID), r.engine.instanceID, r.engine.cfg.LeaseTTL)
			if err != nil {
				r.logger.Warn().Err(err).Msg("Lease renewal errored")
				continue
			}
			if !ok {
				r.logger.Error().Msg("Lost workflow lease, halting runner")
				r.leaseLost = true
				cancel()
				return
			}
		}
	}
}

func (r *run) runPhase(ctx context.Context, phase *types.Phase) *types.Fault {
	phase.State = types.PhaseStateRunning
	if phase.StartedAt.IsZero() {
		phase.StartedAt = time.Now().UTC()
	}
	if err := r.engine.persist(ctx, r.wf); err != nil {
		return types.FaultFrom(err)
	}
	r.logger.Info().Str("phase", phase.ID).Int("servers", len(phase.TargetServers)).Msg("Phase started")

	for _, step := range phase.Steps {
		if step.State == types.StepStateSucceeded || step.State == types.StepStateSkipped {
			continue
		}
		fault := r.runStep(ctx, phase, step)
		if ctx.Err() != nil || r.canceled {
			return fault
		}
		if fault != nil {
			step.State = types.StepStateFailed
			if step.Critical || phase.MaxFailurePercent > 0 {
				return fault
			}
			r.logger.Warn().Str("step", step.ID).Err(fault).Msg("Non-critical step failed, continuing")
			continue
		}
		step.State = types.StepStateSucceeded
	}
	return nil
}

func (r *run) runStep(ctx context.Context, phase *types.Phase, step *types.Step) *types.Fault {
	if step.ServerStatus == nil {
		step.ServerStatus = map[string]types.ServerStepStatus{}
	}
	wasRunning := step.State == types.StepStateRunning
	step.State = types.StepStateRunning

	gateTimeout := phase.Gate.Timeout
	if gateTimeout <= 0 {
		gateTimeout = r.engine.cfg.DefaultHealthCheckTimeout
	}
	step.Deadline = time.Now().UTC().Add(gateTimeout)
	if err := r.engine.persist(ctx, r.wf); err != nil {
		return types.FaultFrom(err)
	}

	// Replay window: a resumed step first listens for status messages
	// redelivered by the broker before reissuing anything.
	if r.resumed && wasRunning {
		r.awaitReplay(ctx, step)
		r.resumed = false
	}

	// Servers already terminal (from a previous attempt) keep their
	// outcome; everything else is (re)issued under the current attempt.
	var queue []string
	for _, server := range phase.TargetServers {
		if types.TerminalServerStep(step.ServerStatus[server]) {
			continue
		}
		queue = append(queue, server)
	}

	capacity := phase.MaxParallelism
	if phase.Serial {
		capacity = 1
	}
	if capacity < 1 {
		capacity = r.engine.cfg.MaxParallelismDefault
	}

	inflight := make(map[string]string) // commandID -> server
	deadline := time.NewTimer(time.Until(step.Deadline))
	defer deadline.Stop()

	// retry wakes the loop to re-attempt slot acquisition when the
	// global cap was hit by other workflows.
	retry := time.NewTicker(100 * time.Millisecond)
	defer retry.Stop()

	releaseAll := func() {
		for range inflight {
			r.releaseSlot()
		}
	}

	for {
		for len(queue) > 0 && len(inflight) < capacity && !r.canceled {
			// Never block on a global slot while holding in-flight
			// commands: their statuses are what free our slots.
			if !r.tryAcquireSlot() {
				if len(inflight) > 0 {
					break
				}
				ok, expired := r.acquireSlot(ctx, deadline.C)
				if expired {
					for _, server := range queue {
						step.ServerStatus[server] = types.ServerStepTimedOut
					}
					_ = r.engine.persist(ctx, r.wf)
					return types.NewFault(types.ErrTimeout, "step %s did not complete before its deadline", step.ID)
				}
				if !ok {
					return types.NewFault(types.ErrCanceled, "engine shutting down")
				}
			}
			server := queue[0]
			queue = queue[1:]
			cmdID, fault := r.issue(ctx, phase, step, server)
			if fault != nil {
				r.releaseSlot()
				step.ServerStatus[server] = types.ServerStepFailed
				r.wf.Metrics.Failed[phase.ID]++
				r.logger.Warn().Str("server", server).Err(fault).Msg("Command publish failed")
				continue
			}
			inflight[cmdID] = server
		}

		if len(queue) == 0 && len(inflight) == 0 {
			break
		}

		select {
		case <-ctx.Done():
			releaseAll()
			return types.NewFault(types.ErrCanceled, "engine shutting down")

		case <-retry.C:
			// Re-run the issue loop.

		case <-deadline.C:
			for cmdID, server := range inflight {
				step.ServerStatus[server] = types.ServerStepTimedOut
				r.wf.Metrics.Failed[phase.ID]++
				_ = r.engine.store.Delete(ctx, pendingKey(r.wf.ID, cmdID))
				r.releaseSlot()
			}
			for _, server := range queue {
				step.ServerStatus[server] = types.ServerStepTimedOut
			}
			_ = r.engine.persist(ctx, r.wf)
			return types.NewFault(types.ErrTimeout, "step %s did not complete before its deadline", step.ID)

		case action := <-r.controlCh:
			r.applyControl(action)
			if r.canceled {
				queue = nil
				r.stopRunning(ctx, step, inflight)
				if len(inflight) == 0 {
					releaseAll()
					return nil
				}
			}

		case u := <-r.statusCh:
			if _, done := r.applyStatus(ctx, phase, step, u, inflight); !done {
				continue
			}
			delete(inflight, u.CommandID)
			r.releaseSlot()
			if phase.Serial && phase.DelayBetween > 0 && len(queue) > 0 {
				if !r.sleep(ctx, phase.DelayBetween) {
					releaseAll()
					return types.NewFault(types.ErrCanceled, "engine shutting down")
				}
			}
		}
	}

	_ = r.engine.persist(ctx, r.wf)
	if r.canceled {
		return nil
	}
	return r.evaluate(phase, step)
}

// issue persists intent, then publishes. Order matters: a command that
// exists on the wire always has a pending record behind it.
func (r *run) issue(ctx context.Context, phase *types.Phase, step *types.Step, server string) (string, *types.Fault) {
	cmdID := CommandID(r.wf.ID, phase.ID, step.ID, server, r.wf.Attempt)

	entry := &pendingEntry{
		CommandID: cmdID,
		AgentID:   server,
		PhaseID:   phase.ID,
		StepID:    step.ID,
		Attempt:   r.wf.Attempt,
		State:     types.ServerStepIssued,
		IssuedAt:  time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.engine.store.Set(ctx, pendingKey(r.wf.ID, cmdID), entry, 0); err != nil {
		return "", types.FaultFrom(err)
	}

	cmd := &types.DeploymentCommand{
		CommandID:     cmdID,
		WorkflowID:    r.wf.ID,
		PhaseID:       phase.ID,
		StepID:        step.ID,
		AgentID:       server,
		ServiceName:   r.wf.ServiceName,
		Version:       r.wf.TargetVersion,
		Strategy:      r.wf.Strategy,
		Operation:     step.Operation,
		Priority:      r.wf.Priority,
		Package:       r.wf.Package,
		Parameters:    step.Parameters,
		IssuedAt:      time.Now().UTC(),
		Deadline:      step.Deadline,
		CorrelationID: r.wf.ID,
	}

	err := r.engine.publisher.Publish(ctx, fabric.CommandKey(string(step.Operation), server), cmd, &fabric.Props{
		Priority:      clampPriority(r.wf.Priority),
		CorrelationID: r.wf.ID,
		MessageID:     cmdID,
		Expiration:    time.Until(step.Deadline),
	})
	if err != nil {
		// Broker path down: park the command on the agent's heartbeat
		// queue instead of failing the server outright.
		if qerr := r.engine.store.LPush(ctx, AgentCommandQueue(server), cmd); qerr != nil {
			return "", types.NewFault(types.ErrTransportUnavailable, "publish failed: %v", err)
		}
		r.logger.Warn().Err(err).Str("server", server).Msg("Publish failed, queued command for heartbeat delivery")
	}

	step.ServerStatus[server] = types.ServerStepIssued
	metrics.CommandsIssued.Inc()
	return cmdID, nil
}

// applyStatus folds one status update into the step. Returns the server
// and whether the command reached a terminal state. Duplicates and
// strays are ignored.
func (r *run) applyStatus(ctx context.Context, phase *types.Phase, step *types.Step, u types.StatusUpdate, inflight map[string]string) (string, bool) {
	server, ok := inflight[u.CommandID]
	if !ok {
		return "", false
	}
	if types.TerminalServerStep(step.ServerStatus[server]) {
		return server, false
	}

	var status types.ServerStepStatus
	switch u.Phase {
	case types.StatusAccepted:
		status = types.ServerStepAccepted
	case types.StatusRunning, types.StatusProgress:
		status = types.ServerStepRunning
	case types.StatusApplied:
		status = types.ServerStepApplied
	case types.StatusSucceeded:
		status = types.ServerStepSucceeded
	case types.StatusFailed:
		status = types.ServerStepFailed
	case types.StatusRejected:
		status = types.ServerStepRejected
	default:
		return server, false
	}

	step.ServerStatus[server] = status

	if status == types.ServerStepApplied || status == types.ServerStepSucceeded {
		_ = r.engine.store.SAdd(ctx, appliedKey(r.wf.ID), server)
	}

	entry := &pendingEntry{
		CommandID: u.CommandID,
		AgentID:   server,
		PhaseID:   phase.ID,
		StepID:    step.ID,
		Attempt:   r.wf.Attempt,
		State:     status,
		UpdatedAt: time.Now().UTC(),
	}
	_ = r.engine.store.Set(ctx, pendingKey(r.wf.ID, u.CommandID), entry, 0)

	if !types.TerminalServerStep(status) {
		return server, false
	}

	switch status {
	case types.ServerStepSucceeded:
		r.wf.Metrics.Succeeded[phase.ID]++
	default:
		r.wf.Metrics.Failed[phase.ID]++
	}
	_ = r.engine.persist(ctx, r.wf)
	return server, true
}

// awaitReplay listens for redelivered statuses for a bounded window,
// matching them against persisted pending entries from earlier attempts
func (r *run) awaitReplay(ctx context.Context, step *types.Step) {
	pending, err := r.engine.loadPending(ctx, r.wf.ID)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to load pending entries for replay")
		return
	}

	byCommand := make(map[string]string)
	for cmdID, entry := range pending {
		if entry.StepID != step.ID {
			continue
		}
		if !types.TerminalServerStep(entry.State) {
			byCommand[cmdID] = entry.AgentID
		}
		// Persisted outcomes survive the crash either way.
		if entry.State != "" {
			step.ServerStatus[entry.AgentID] = entry.State
		}
	}
	if len(byCommand) == 0 {
		return
	}

	r.logger.Info().
		Int("awaiting", len(byCommand)).
		Dur("window", r.engine.cfg.ReissueWindow).
		Msg("Waiting for replayed status before reissuing")

	timer := time.NewTimer(r.engine.cfg.ReissueWindow)
	defer timer.Stop()

	for len(byCommand) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case u := <-r.statusCh:
			server, ok := byCommand[u.CommandID]
			if !ok {
				continue
			}
			switch u.Phase {
			case types.StatusSucceeded:
				step.ServerStatus[server] = types.ServerStepSucceeded
				delete(byCommand, u.CommandID)
			case types.StatusFailed:
				step.ServerStatus[server] = types.ServerStepFailed
				delete(byCommand, u.CommandID)
			case types.StatusRejected:
				step.ServerStatus[server] = types.ServerStepRejected
				delete(byCommand, u.CommandID)
			case types.StatusApplied:
				step.ServerStatus[server] = types.ServerStepApplied
				_ = r.engine.store.SAdd(ctx, appliedKey(r.wf.ID), server)
			}
		}
	}
}

// evaluate applies the step-completion policy
func (r *run) evaluate(phase *types.Phase, step *types.Step) *types.Fault {
	total := len(phase.TargetServers)
	if total == 0 {
		return nil
	}

	var succeeded, failed int
	for _, server := range phase.TargetServers {
		switch step.ServerStatus[server] {
		case types.ServerStepSucceeded:
			succeeded++
		case types.ServerStepFailed, types.ServerStepRejected, types.ServerStepTimedOut:
			failed++
		}
	}

	if phase.MaxFailurePercent > 0 {
		failPct := float64(failed) / float64(total) * 100
		if failPct > phase.MaxFailurePercent {
			return types.NewFault(types.ErrGateFailed,
				"step %s failure rate %.0f%% exceeds threshold %.0f%%", step.ID, failPct, phase.MaxFailurePercent)
		}
	}

	if phase.Gate.RequiredRatio > 0 {
		ratio := float64(succeeded) / float64(total)
		if ratio < phase.Gate.RequiredRatio {
			return types.NewFault(types.ErrGateFailed,
				"step %s success ratio %.2f below required %.2f", step.ID, ratio, phase.Gate.RequiredRatio)
		}
	}

	// Inside the tolerance of a wave threshold, per-server failures are
	// recorded but do not fail the step, even when critical.
	if step.Critical && failed > 0 && phase.MaxFailurePercent == 0 {
		return types.NewFault(types.ErrGateFailed, "critical step %s had %d server failure(s)", step.ID, failed)
	}
	return nil
}

// rollback issues inverse commands to every server that reached
// Applied or later, as one parallel wave with its own gate
func (r *run) rollback(ctx context.Context, cause *types.Fault) {
	r.wf.RollbackIssued = true
	r.wf.State = types.WorkflowStateRollingBack
	r.wf.LastError = cause
	if err := r.engine.persist(ctx, r.wf); err != nil {
		r.logger.Error().Err(err).Msg("Failed to persist rolling-back state")
	}
	metrics.RollbacksTotal.Inc()

	servers, err := r.engine.store.SMembers(ctx, appliedKey(r.wf.ID))
	if err != nil {
		r.finish(ctx, types.WorkflowStateFailed, types.NewFault(types.ErrInternal, "cannot determine rollback set: %v", err))
		return
	}

	r.alert(ctx, types.AlertWarning, "rollback started",
		"rolling back %d server(s) after: %s", len(servers), cause.Message)

	if len(servers) == 0 {
		// Nothing was applied anywhere; rollback is a no-op.
		r.finish(ctx, types.WorkflowStateRolledBack, cause)
		return
	}

	phase := &types.Phase{
		ID:                "rollback",
		Name:              "Rollback",
		Kind:              types.PhaseKindRollback,
		TargetServers:     servers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: false,
		Gate: types.HealthGate{
			Timeout:       r.engine.cfg.DefaultHealthCheckTimeout,
			RequiredRatio: 1.0,
		},
		MaxParallelism: len(servers),
		Steps: []*types.Step{
			{
				ID:        "rollback",
				Name:      "Roll back to previous version",
				Type:      types.StepTypeCommand,
				Operation: types.OperationRollback,
				Critical:  true,
				State:     types.StepStatePending,
			},
		},
	}
	r.wf.Phases = append(r.wf.Phases, phase)
	r.wf.CurrentPhaseIndex = len(r.wf.Phases) - 1

	fault := r.runPhase(ctx, phase)
	if ctx.Err() != nil {
		return
	}
	if fault != nil {
		phase.State = types.PhaseStateFailed
		r.finish(ctx, types.WorkflowStateFailed,
			types.NewFault(cause.Kind, "%s; rollback also failed: %s", cause.Message, fault.Message))
		return
	}
	phase.State = types.PhaseStateSucceeded
	r.finish(ctx, types.WorkflowStateRolledBack, cause)
}

// stopRunning best-effort stops servers currently executing, used on
// cancellation. Fire-and-forget: these commands are not tracked.
func (r *run) stopRunning(ctx context.Context, step *types.Step, inflight map[string]string) {
	for _, server := range inflight {
		if step.ServerStatus[server] != types.ServerStepRunning {
			continue
		}
		stop := &types.DeploymentCommand{
			CommandID:     uuid.New().String(),
			WorkflowID:    r.wf.ID,
			AgentID:       server,
			ServiceName:   r.wf.ServiceName,
			Operation:     types.OperationStop,
			IssuedAt:      time.Now().UTC(),
			CorrelationID: r.wf.ID,
		}
		if err := r.engine.publisher.Publish(ctx, fabric.CommandKey(string(types.OperationStop), server), stop, nil); err != nil {
			r.logger.Warn().Err(err).Str("server", server).Msg("Best-effort stop failed")
		}
	}
}

func (r *run) drainControl() {
	for {
		select {
		case action := <-r.controlCh:
			r.applyControl(action)
		default:
			return
		}
	}
}

func (r *run) applyControl(action ControlAction) {
	switch action {
	case ControlPause:
		r.pauseWant = true
	case ControlResume:
		r.pauseWant = false
	case ControlCancel:
		r.canceled = true
	}
}

// pause parks the workflow until resumed or canceled. Returns false
// when the runner must exit without reaching a terminal state.
func (r *run) pause(ctx context.Context) bool {
	r.wf.State = types.WorkflowStatePaused
	if err := r.engine.persist(ctx, r.wf); err != nil {
		r.logger.Error().Err(err).Msg("Failed to persist paused state")
	}
	r.engine.broker.Publish(&events.Event{
		Type:       events.EventWorkflowPaused,
		WorkflowID: r.wf.ID,
		Service:    r.wf.ServiceName,
	})
	r.alert(ctx, types.AlertWarning, "workflow paused", "workflow for %s is paused awaiting resume", r.wf.ServiceName)
	r.logger.Info().Msg("Workflow paused")

	for {
		select {
		case <-ctx.Done():
			return false
		case action := <-r.controlCh:
			r.applyControl(action)
			if r.canceled {
				r.finish(ctx, types.WorkflowStateCanceled, types.NewFault(types.ErrCanceled, "canceled while paused"))
				return false
			}
			if !r.pauseWant {
				r.wf.State = types.WorkflowStateRunning
				if err := r.engine.persist(ctx, r.wf); err != nil {
					r.logger.Error().Err(err).Msg("Failed to persist resumed state")
				}
				r.engine.broker.Publish(&events.Event{
					Type:       events.EventWorkflowResumed,
					WorkflowID: r.wf.ID,
					Service:    r.wf.ServiceName,
				})
				r.logger.Info().Msg("Workflow resumed")
				return true
			}
		case <-r.statusCh:
			// Late statuses while paused are duplicates of persisted
			// outcomes; drop them.
		}
	}
}

func (r *run) fail(ctx context.Context, fault *types.Fault) {
	r.finish(ctx, types.WorkflowStateFailed, fault)
}

func (r *run) finish(ctx context.Context, state types.WorkflowState, fault *types.Fault) {
	r.wf.State = state
	r.wf.LastError = fault
	if err := r.engine.persist(ctx, r.wf); err != nil {
		r.logger.Error().Err(err).Msg("Failed to persist terminal state")
	}

	if _, err := r.engine.store.DeleteByPattern(ctx, pendingPattern(r.wf.ID)); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to clear pending entries")
	}

	metrics.WorkflowDuration.WithLabelValues(string(state)).Observe(time.Since(r.wf.CreatedAt).Seconds())

	var eventType events.EventType
	switch state {
	case types.WorkflowStateSucceeded:
		eventType = events.EventWorkflowSucceeded
		r.alert(ctx, types.AlertInfo, "deployment succeeded",
			"%s %s deployed to %d phase(s)", r.wf.ServiceName, r.wf.TargetVersion, len(r.wf.Phases))
	case types.WorkflowStateFailed:
		eventType = events.EventWorkflowFailed
		r.alert(ctx, types.AlertCritical, "deployment failed", "%s: %s", r.wf.ServiceName, faultMessage(fault))
	case types.WorkflowStateRolledBack:
		eventType = events.EventWorkflowRolledBack
		r.alert(ctx, types.AlertCritical, "deployment rolled back", "%s: %s", r.wf.ServiceName, faultMessage(fault))
	case types.WorkflowStateCanceled:
		eventType = events.EventWorkflowCanceled
		r.alert(ctx, types.AlertWarning, "deployment canceled", "%s %s canceled", r.wf.ServiceName, r.wf.TargetVersion)
	}
	if eventType != "" {
		r.engine.broker.Publish(&events.Event{
			Type:       eventType,
			WorkflowID: r.wf.ID,
			Service:    r.wf.ServiceName,
			Message:    faultMessage(fault),
		})
	}
	r.logger.Info().Str("state", string(state)).Msg("Workflow finished")
}

func (r *run) alertGateBreach(ctx context.Context, phase *types.Phase, fault *types.Fault) {
	if fault.Kind != types.ErrGateFailed {
		return
	}
	r.engine.broker.Publish(&events.Event{
		Type:       events.EventGateBreached,
		WorkflowID: r.wf.ID,
		Service:    r.wf.ServiceName,
		Message:    phase.ID,
	})
	r.alert(ctx, types.AlertWarning, "health gate breached",
		"phase %s: %s", phase.ID, fault.Message)
}

func (r *run) alert(ctx context.Context, severity types.AlertSeverity, title, format string, args ...interface{}) {
	if r.engine.alertBus == nil {
		return
	}
	_, err := r.engine.alertBus.PublishAlert(ctx, &types.Alert{
		Severity: severity,
		Category: types.AlertCategoryDeployment,
		Title:    title,
		Message:  fmt.Sprintf(format, args...),
		Service:  r.wf.ServiceName,
		Metadata: map[string]string{"workflowId": r.wf.ID},
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("title", title).Msg("Failed to publish alert")
	}
}

// acquireSlot blocks for a global slot. The step deadline keeps
// ticking while we wait; a saturated cap must not extend it.
func (r *run) acquireSlot(ctx context.Context, deadline <-chan time.Time) (ok, expired bool) {
	select {
	case r.engine.globalSlots <- struct{}{}:
		metrics.CommandsInFlight.Inc()
		return true, false
	case <-deadline:
		return false, true
	case <-ctx.Done():
		return false, false
	}
}

func (r *run) tryAcquireSlot() bool {
	select {
	case r.engine.globalSlots <- struct{}{}:
		metrics.CommandsInFlight.Inc()
		return true
	default:
		return false
	}
}

func (r *run) releaseSlot() {
	select {
	case <-r.engine.globalSlots:
		metrics.CommandsInFlight.Dec()
	default:
	}
}

func (r *run) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func clampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return uint8(p)
}

func faultMessage(f *types.Fault) string {
	if f == nil {
		return ""
	}
	return f.Message
}

