package strategy

import (
	"time"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/types"
)

// immediatePlanner deploys everywhere at once with a single trailing
// health gate. For fleets where brief full unavailability is acceptable.
type immediatePlanner struct {
	defaults config.Strategy
}

func (p *immediatePlanner) Kind() types.Strategy {
	return types.StrategyImmediate
}

func (p *immediatePlanner) Validate(cfg *types.StrategyConfig) error {
	return validateHealthCheck(cfg)
}

func (p *immediatePlanner) Plan(req *types.WorkflowRequest) ([]*types.Phase, error) {
	gate := healthGate(req.Config, p.defaults)

	wave := &types.Phase{
		ID:                "deploy-all",
		Name:              "Deploy all servers",
		Kind:              types.PhaseKindWave,
		TargetServers:     req.TargetServers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: true,
		Gate:              gate,
		MaxParallelism:    len(req.TargetServers),
		Steps:             []*types.Step{deployStep(req)},
	}

	return []*types.Phase{
		preDeployPhase(req),
		wave,
		postDeployPhase(req, gate),
		cleanupPhase(req),
	}, nil
}

func (p *immediatePlanner) Estimate(serverCount int, cfg *types.StrategyConfig) time.Duration {
	gate := healthGate(cfg, p.defaults)
	return time.Duration(serverCount)*perServerTime + gate.Timeout + bookendTime
}
