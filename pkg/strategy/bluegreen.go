package strategy

import (
	"time"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/types"
)

// blueGreenPlanner deploys to the idle color, smoke-tests it, then
// cuts traffic over in one atomic phase
type blueGreenPlanner struct {
	defaults config.Strategy
}

func (p *blueGreenPlanner) Kind() types.Strategy {
	return types.StrategyBlueGreen
}

func (p *blueGreenPlanner) Validate(cfg *types.StrategyConfig) error {
	return validateHealthCheck(cfg)
}

func (p *blueGreenPlanner) Plan(req *types.WorkflowRequest) ([]*types.Phase, error) {
	gate := healthGate(req.Config, p.defaults)

	deployIdle := &types.Phase{
		ID:                "deploy-idle",
		Name:              "Deploy to idle color",
		Kind:              types.PhaseKindWave,
		TargetServers:     req.TargetServers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: true,
		Gate:              gate,
		MaxParallelism:    len(req.TargetServers),
		Steps:             []*types.Step{deployStep(req)},
	}
	idleParams(deployIdle.Steps[0], req)

	// A cut-over failure flips traffic back via the rollback wave, so
	// the whole phase is rollback-critical. Not a wave: deploy-idle is
	// the only phase that counts as deploying these servers.
	cutover := &types.Phase{
		ID:                "cutover",
		Name:              "Cut over traffic",
		Kind:              types.PhaseKindPostDeploy,
		TargetServers:     req.TargetServers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: true,
		Gate:              gate,
		MaxParallelism:    len(req.TargetServers),
		Steps: []*types.Step{
			{
				ID:        "smoke-test",
				Name:      "Smoke-test idle color",
				Type:      types.StepTypeHealthCheck,
				Operation: types.OperationHealthCheck,
				Critical:  true,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"color": "idle",
				},
			},
			{
				ID:        "switch-traffic",
				Name:      "Switch load balancer to new color",
				Type:      types.StepTypeCommand,
				Operation: types.OperationSwitchTraffic,
				Critical:  true,
				State:     types.StepStatePending,
			},
		},
	}

	// Stopping the old color is best-effort once traffic has moved.
	drain := &types.Phase{
		ID:                "drain-old",
		Name:              "Drain old color",
		Kind:              types.PhaseKindCleanup,
		TargetServers:     req.TargetServers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: false,
		Gate:              types.HealthGate{RequiredRatio: 0},
		MaxParallelism:    len(req.TargetServers),
		Steps: []*types.Step{
			{
				ID:        "stop-old",
				Name:      "Stop old color",
				Type:      types.StepTypeCommand,
				Operation: types.OperationStop,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"color": "old",
				},
			},
		},
	}

	return []*types.Phase{
		preDeployPhase(req),
		deployIdle,
		cutover,
		drain,
		postDeployPhase(req, gate),
		cleanupPhase(req),
	}, nil
}

func idleParams(step *types.Step, req *types.WorkflowRequest) {
	if step.Parameters == nil {
		step.Parameters = map[string]string{}
	}
	step.Parameters["color"] = "idle"
	step.Parameters["activate"] = "false"
}

func (p *blueGreenPlanner) Estimate(serverCount int, cfg *types.StrategyConfig) time.Duration {
	gate := healthGate(cfg, p.defaults)
	// Two gated waves over the full set: deploy-idle and cutover.
	return 2*(time.Duration(serverCount)*perServerTime+gate.Timeout) + bookendTime
}
