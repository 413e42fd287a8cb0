package strategy

import (
	"fmt"
	"time"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/types"
)

// rollingPlanner deploys in waves with a health gate after each wave
type rollingPlanner struct {
	defaults config.Strategy
}

func (p *rollingPlanner) Kind() types.Strategy {
	return types.StrategyRolling
}

func (p *rollingPlanner) Validate(cfg *types.StrategyConfig) error {
	if cfg == nil || cfg.Wave == nil {
		return types.NewFault(types.ErrValidationFailed, "WaveConfiguration is required")
	}
	if cfg.Rolling == nil {
		return types.NewFault(types.ErrValidationFailed, "RollingConfiguration is required")
	}
	if err := validateHealthCheck(cfg); err != nil {
		return err
	}

	switch cfg.Wave.Strategy {
	case types.WaveStrategyFixedSize:
		if cfg.Wave.WaveSize < 1 {
			return types.NewFault(types.ErrValidationFailed, "wave.waveSize must be >= 1")
		}
	case types.WaveStrategyPercentage:
		if cfg.Wave.WavePercentage <= 0 || cfg.Wave.WavePercentage > 100 {
			return types.NewFault(types.ErrValidationFailed, "wave.wavePercentage must be in (0,100]")
		}
	default:
		return types.NewFault(types.ErrValidationFailed, "wave.strategy must be fixed-size or percentage, got %q", cfg.Wave.Strategy)
	}

	if cfg.Rolling.MaxFailurePercent < 0 || cfg.Rolling.MaxFailurePercent > 100 {
		return types.NewFault(types.ErrValidationFailed, "rolling.maxFailurePercent must be in [0,100]")
	}
	if cfg.Rolling.ParallelWithinWave && cfg.Rolling.MaxParallelism < 1 {
		return types.NewFault(types.ErrValidationFailed, "rolling.maxParallelism must be >= 1 for parallel waves")
	}
	return nil
}

func (p *rollingPlanner) Plan(req *types.WorkflowRequest) ([]*types.Phase, error) {
	waves := p.partition(req.TargetServers, req.Config.Wave)
	gate := healthGate(req.Config, p.defaults)
	rolling := req.Config.Rolling

	phases := []*types.Phase{preDeployPhase(req)}
	for i, wave := range waves {
		phase := &types.Phase{
			ID:                fmt.Sprintf("wave-%d", i+1),
			Name:              fmt.Sprintf("Wave %d of %d", i+1, len(waves)),
			Kind:              types.PhaseKindWave,
			TargetServers:     wave,
			State:             types.PhaseStatePending,
			RollbackOnFailure: true,
			MaxFailurePercent: rolling.MaxFailurePercent,
			Gate:              gate,
			Serial:            !rolling.ParallelWithinWave,
			DelayBetween:      rolling.DelayBetweenServers,
			MaxParallelism:    rolling.MaxParallelism,
			Steps:             []*types.Step{deployStep(req)},
		}
		if i < len(waves)-1 {
			phase.PostDelay = req.Config.Wave.WaveInterval
		}
		phases = append(phases, phase)
	}

	phases = append(phases, postDeployPhase(req, gate), cleanupPhase(req))
	return phases, nil
}

func (p *rollingPlanner) partition(servers []string, wave *types.WaveConfig) [][]string {
	if wave.Strategy == types.WaveStrategyPercentage {
		return partitionPercent(servers, wave.WavePercentage)
	}
	return partitionFixed(servers, wave.WaveSize)
}

func (p *rollingPlanner) Estimate(serverCount int, cfg *types.StrategyConfig) time.Duration {
	gate := healthGate(cfg, p.defaults)
	waveInterval := p.defaults.WaveInterval
	waveSize := p.defaults.WaveSize

	if cfg != nil && cfg.Wave != nil {
		if cfg.Wave.WaveInterval > 0 {
			waveInterval = cfg.Wave.WaveInterval
		}
		switch cfg.Wave.Strategy {
		case types.WaveStrategyFixedSize:
			if cfg.Wave.WaveSize > 0 {
				waveSize = cfg.Wave.WaveSize
			}
		case types.WaveStrategyPercentage:
			s := int(float64(serverCount) * cfg.Wave.WavePercentage / 100)
			if s > 0 {
				waveSize = s
			} else {
				waveSize = 1
			}
		}
	}

	waves := (serverCount + waveSize - 1) / waveSize
	if waves < 1 {
		waves = 1
	}

	var total time.Duration
	remaining := serverCount
	for i := 0; i < waves; i++ {
		size := waveSize
		if size > remaining {
			size = remaining
		}
		total += time.Duration(size)*perServerTime + waveInterval + gate.Timeout
		remaining -= size
	}
	return total + bookendTime
}
