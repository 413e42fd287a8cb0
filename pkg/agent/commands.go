package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/health"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/types"
)

// seenLimit bounds the completed-command cache. Delivery is
// at-least-once, so results are kept for replay on duplicates.
const seenLimit = 1024

// Publisher is the slice of the fabric the executor publishes through
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}, props *fabric.Props) error
}

// executor runs deployment and admin commands arriving on the agent's
// queue and reports outcomes back over the fabric.
type executor struct {
	agentID        string
	fab            Publisher
	manager        ServiceManager
	releases       *releaseStore
	commandTimeout time.Duration
	logger         zerolog.Logger

	mu       sync.Mutex
	seen     map[string]types.StatusPhase
	results  map[string]*types.CommandResult
	order    []string
	inflight map[string]struct{}
}

func newExecutor(agentID string, fab Publisher, manager ServiceManager, releases *releaseStore, commandTimeout time.Duration) *executor {
	return &executor{
		agentID:        agentID,
		fab:            fab,
		manager:        manager,
		releases:       releases,
		commandTimeout: commandTimeout,
		logger:         log.WithComponent("executor"),
		seen:           make(map[string]types.StatusPhase),
		results:        make(map[string]*types.CommandResult),
		inflight:       make(map[string]struct{}),
	}
}

// handle is the fabric consumer entry point. Routing decides the
// message shape: priority keys carry admin ServiceCommands, command
// keys carry DeploymentCommands.
func (e *executor) handle(d fabric.Delivery) fabric.Verdict {
	if strings.HasPrefix(d.RoutingKey, "priority.") {
		var cmd types.ServiceCommand
		if err := json.Unmarshal(d.Body, &cmd); err != nil {
			e.logger.Warn().Err(err).Str("message_id", d.MessageID).Msg("Malformed admin command")
			return fabric.Dead
		}
		e.runAdmin(context.Background(), &cmd)
		return fabric.Ack
	}

	var cmd types.DeploymentCommand
	if err := json.Unmarshal(d.Body, &cmd); err != nil || cmd.CommandID == "" {
		e.logger.Warn().Err(err).Str("message_id", d.MessageID).Msg("Malformed deployment command")
		return fabric.Dead
	}
	e.Execute(context.Background(), &cmd)
	return fabric.Ack
}

// Execute runs one deployment command to completion. Duplicate
// commands replay the recorded terminal status instead of re-running.
func (e *executor) Execute(ctx context.Context, cmd *types.DeploymentCommand) {
	e.mu.Lock()
	if phase, done := e.seen[cmd.CommandID]; done {
		e.mu.Unlock()
		e.logger.Debug().Str("command_id", cmd.CommandID).Msg("Duplicate command, replaying terminal status")
		e.publishStatus(ctx, cmd, phase, 100, "duplicate delivery")
		return
	}
	if _, running := e.inflight[cmd.CommandID]; running {
		e.mu.Unlock()
		return
	}
	e.inflight[cmd.CommandID] = struct{}{}
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.inflight, cmd.CommandID)
		e.mu.Unlock()
	}()

	if !cmd.Deadline.IsZero() && time.Now().After(cmd.Deadline) {
		e.finish(ctx, cmd, types.StatusRejected, "deadline passed before execution")
		return
	}

	e.publishStatus(ctx, cmd, types.StatusAccepted, 0, "")

	timeout := e.commandTimeout
	if !cmd.Deadline.IsZero() {
		if until := time.Until(cmd.Deadline); until < timeout {
			timeout = until
		}
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	e.publishStatus(ctx, cmd, types.StatusRunning, 10, "")

	details, err := e.executeOperation(opCtx, cmd)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("command_id", cmd.CommandID).
			Str("service", cmd.ServiceName).
			Str("operation", string(cmd.Operation)).
			Msg("Command failed")
		e.finish(ctx, cmd, types.StatusFailed, err.Error())
		return
	}
	e.finish(ctx, cmd, types.StatusSucceeded, details)
}

func (e *executor) executeOperation(ctx context.Context, cmd *types.DeploymentCommand) (string, error) {
	switch cmd.Operation {
	case types.OperationDeploy:
		return e.deploy(ctx, cmd)
	case types.OperationRollback:
		return e.rollback(ctx, cmd)
	case types.OperationStart:
		return "service started", e.manager.Start(ctx, cmd.ServiceName)
	case types.OperationStop:
		return "service stopped", e.manager.Stop(ctx, cmd.ServiceName)
	case types.OperationRestart:
		return "service restarted", e.manager.Restart(ctx, cmd.ServiceName)
	case types.OperationHealthCheck:
		return e.healthCheck(ctx, cmd)
	case types.OperationSwitchTraffic:
		return e.switchTraffic(ctx, cmd)
	default:
		return "", fmt.Errorf("unsupported operation %q", cmd.Operation)
	}
}

// deploy stages the package, swaps the service onto the new release,
// and verifies it came back up
func (e *executor) deploy(ctx context.Context, cmd *types.DeploymentCommand) (string, error) {
	if cmd.Version == "" {
		return "", fmt.Errorf("deploy requires a target version")
	}
	if cmd.Package.Path != "" {
		if err := e.releases.Install(cmd.ServiceName, cmd.Version, cmd.Package.Path, cmd.Package.SHA256); err != nil {
			return "", err
		}
	}
	e.publishStatus(ctx, cmd, types.StatusProgress, 40, "package staged")

	if err := e.manager.Stop(ctx, cmd.ServiceName); err != nil {
		e.logger.Debug().Err(err).Str("service", cmd.ServiceName).Msg("Stop before activate failed, continuing")
	}
	if err := e.releases.Activate(cmd.ServiceName, cmd.Version); err != nil {
		return "", err
	}
	if err := e.manager.Start(ctx, cmd.ServiceName); err != nil {
		return "", fmt.Errorf("failed to start %s on %s: %w", cmd.ServiceName, cmd.Version, err)
	}
	e.publishStatus(ctx, cmd, types.StatusApplied, 80, "release activated")

	status, err := e.manager.Status(ctx, cmd.ServiceName)
	if err != nil {
		return "", fmt.Errorf("post-deploy status check: %w", err)
	}
	if status != types.ServiceStatusRunning {
		return "", fmt.Errorf("service %s is %s after deploy", cmd.ServiceName, status)
	}
	return fmt.Sprintf("%s running on %s", cmd.ServiceName, cmd.Version), nil
}

// rollback reverts to the previous release. Preferred target is the
// command's version; with none given the release store decides.
func (e *executor) rollback(ctx context.Context, cmd *types.DeploymentCommand) (string, error) {
	if err := e.manager.Stop(ctx, cmd.ServiceName); err != nil {
		e.logger.Debug().Err(err).Str("service", cmd.ServiceName).Msg("Stop before rollback failed, continuing")
	}

	target := cmd.Version
	if target != "" && target != e.releases.Current(cmd.ServiceName) {
		if err := e.releases.Activate(cmd.ServiceName, target); err != nil {
			return "", err
		}
	} else if target == "" {
		var err error
		target, err = e.releases.Rollback(cmd.ServiceName)
		if err != nil {
			return "", err
		}
	}
	e.publishStatus(ctx, cmd, types.StatusApplied, 80, "previous release activated")

	if err := e.manager.Start(ctx, cmd.ServiceName); err != nil {
		return "", fmt.Errorf("failed to start %s on %s: %w", cmd.ServiceName, target, err)
	}
	return fmt.Sprintf("%s rolled back to %s", cmd.ServiceName, target), nil
}

// healthCheck picks a checker from the command parameters:
// healthUrl (HTTP), healthAddr (TCP), healthCommand (exec). Without
// parameters the service manager state decides.
func (e *executor) healthCheck(ctx context.Context, cmd *types.DeploymentCommand) (string, error) {
	var checker health.Checker
	switch {
	case cmd.Parameters["healthUrl"] != "":
		checker = health.NewHTTPChecker(cmd.Parameters["healthUrl"])
	case cmd.Parameters["healthAddr"] != "":
		addr := cmd.Parameters["healthAddr"]
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return "", fmt.Errorf("invalid healthAddr %q: %w", addr, err)
		}
		checker = health.NewTCPChecker(addr)
	case cmd.Parameters["healthCommand"] != "":
		checker = health.NewExecChecker(strings.Fields(cmd.Parameters["healthCommand"]))
	}

	if checker == nil {
		status, err := e.manager.Status(ctx, cmd.ServiceName)
		if err != nil {
			return "", err
		}
		if status != types.ServiceStatusRunning {
			return "", fmt.Errorf("service %s is %s", cmd.ServiceName, status)
		}
		return "service running", nil
	}

	cfg := health.DefaultConfig()
	if n, err := strconv.Atoi(cmd.Parameters["healthRetries"]); err == nil && n > 0 {
		cfg.Retries = n
	}

	result := health.Probe(ctx, checker, cfg)
	if !result.Healthy {
		return "", fmt.Errorf("%s check failed: %s", checker.Type(), result.Message)
	}
	return result.Message, nil
}

// switchTraffic runs the operator-provided cutover command
func (e *executor) switchTraffic(ctx context.Context, cmd *types.DeploymentCommand) (string, error) {
	command := cmd.Parameters["switchCommand"]
	if command == "" {
		return "", fmt.Errorf("switch-traffic requires a switchCommand parameter")
	}
	result := health.NewExecChecker(strings.Fields(command)).Check(ctx)
	if !result.Healthy {
		return "", fmt.Errorf("traffic switch failed: %s", result.Message)
	}
	return "traffic switched", nil
}

// runAdmin executes a synchronous admin command and publishes the
// result onto the caller's correlation key
func (e *executor) runAdmin(ctx context.Context, cmd *types.ServiceCommand) {
	e.mu.Lock()
	if cached, ok := e.results[cmd.CommandID]; ok {
		e.mu.Unlock()
		e.publishResult(ctx, cached)
		return
	}
	e.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, e.commandTimeout)
	defer cancel()

	result := &types.CommandResult{
		CommandID:  cmd.CommandID,
		Success:    true,
		ExecutedAt: time.Now().UTC(),
	}

	var err error
	switch cmd.Command {
	case "start":
		err = e.manager.Start(opCtx, cmd.ServiceName)
		result.Message = "service started"
	case "stop":
		err = e.manager.Stop(opCtx, cmd.ServiceName)
		result.Message = "service stopped"
	case "restart":
		err = e.manager.Restart(opCtx, cmd.ServiceName)
		result.Message = "service restarted"
	case "status":
		var status types.ServiceStatus
		status, err = e.manager.Status(opCtx, cmd.ServiceName)
		result.Message = string(status)
	default:
		err = fmt.Errorf("unknown command %q", cmd.Command)
	}
	if err != nil {
		result.Success = false
		result.Message = err.Error()
		result.ExitCode = 1
	}

	e.mu.Lock()
	e.results[cmd.CommandID] = result
	e.remember(cmd.CommandID)
	e.mu.Unlock()

	e.publishResult(ctx, result)
}

func (e *executor) publishResult(ctx context.Context, result *types.CommandResult) {
	err := e.fab.Publish(ctx, fabric.CommandResultKey(result.CommandID), result, &fabric.Props{
		CorrelationID: result.CommandID,
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("command_id", result.CommandID).Msg("Failed to publish command result")
	}
}

// finish records the terminal phase for dedup and publishes it
func (e *executor) finish(ctx context.Context, cmd *types.DeploymentCommand, phase types.StatusPhase, detail string) {
	e.mu.Lock()
	e.seen[cmd.CommandID] = phase
	e.remember(cmd.CommandID)
	e.mu.Unlock()

	e.publishStatus(ctx, cmd, phase, 100, detail)
}

// remember appends id to the eviction order, dropping the oldest
// entries past seenLimit. Caller holds e.mu.
func (e *executor) remember(id string) {
	e.order = append(e.order, id)
	for len(e.order) > seenLimit {
		evict := e.order[0]
		e.order = e.order[1:]
		delete(e.seen, evict)
		delete(e.results, evict)
	}
}

func (e *executor) publishStatus(ctx context.Context, cmd *types.DeploymentCommand, phase types.StatusPhase, progress int, detail string) {
	update := &types.StatusUpdate{
		CommandID:  cmd.CommandID,
		WorkflowID: cmd.WorkflowID,
		AgentID:    e.agentID,
		Timestamp:  time.Now().UTC(),
		Phase:      phase,
		Progress:   progress,
		Details:    detail,
	}
	if phase == types.StatusFailed || phase == types.StatusRejected {
		update.Reason = detail
		update.Details = ""
	}

	err := e.fab.Publish(ctx, fabric.StatusKey(cmd.WorkflowID), update, &fabric.Props{
		CorrelationID: cmd.WorkflowID,
		MessageID:     fmt.Sprintf("%s.%s", cmd.CommandID, phase),
	})
	if err != nil {
		e.logger.Warn().Err(err).
			Str("command_id", cmd.CommandID).
			Str("phase", string(phase)).
			Msg("Failed to publish status update")
	}
}
