package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/types"
)

const (
	defaultCanaryPercent   = 5
	defaultExtendedPercent = 25
)

// canaryPlanner deploys a small cohort, observes it behind a
// manual-resume gate, widens, then completes the fleet
type canaryPlanner struct {
	defaults config.Strategy
}

func (p *canaryPlanner) Kind() types.Strategy {
	return types.StrategyCanary
}

func (p *canaryPlanner) Validate(cfg *types.StrategyConfig) error {
	if err := validateHealthCheck(cfg); err != nil {
		return err
	}
	if cfg.Canary == nil {
		return nil
	}
	c := cfg.Canary
	canary := c.CanaryPercent
	extended := c.ExtendedPercent
	if canary == 0 {
		canary = defaultCanaryPercent
	}
	if extended == 0 {
		extended = defaultExtendedPercent
	}
	if canary <= 0 || canary >= 100 {
		return types.NewFault(types.ErrValidationFailed, "canary.canaryPercent must be in (0,100)")
	}
	if extended <= canary || extended >= 100 {
		return types.NewFault(types.ErrValidationFailed, "canary.extendedPercent must be in (canaryPercent,100)")
	}
	return nil
}

func (p *canaryPlanner) Plan(req *types.WorkflowRequest) ([]*types.Phase, error) {
	gate := healthGate(req.Config, p.defaults)

	canaryPct, extendedPct := float64(defaultCanaryPercent), float64(defaultExtendedPercent)
	var observation time.Duration
	if req.Config != nil && req.Config.Canary != nil {
		if req.Config.Canary.CanaryPercent > 0 {
			canaryPct = req.Config.Canary.CanaryPercent
		}
		if req.Config.Canary.ExtendedPercent > 0 {
			extendedPct = req.Config.Canary.ExtendedPercent
		}
		observation = req.Config.Canary.Observation
	}

	cohorts := splitCohorts(req.TargetServers, canaryPct, extendedPct)

	// Observation gates pause the workflow pending an operator resume;
	// a longer observation window extends the gate timeout.
	observeGate := gate
	observeGate.ManualResume = true
	if observation > observeGate.Timeout {
		observeGate.Timeout = observation
	}

	names := []string{"Canary cohort", "Extended cohort", "Remainder"}
	phases := []*types.Phase{preDeployPhase(req)}
	for i, cohort := range cohorts {
		if len(cohort) == 0 {
			continue
		}
		phaseGate := gate
		if i < 2 {
			phaseGate = observeGate
		}
		phases = append(phases, &types.Phase{
			ID:                fmt.Sprintf("canary-%d", i+1),
			Name:              names[i],
			Kind:              types.PhaseKindWave,
			TargetServers:     cohort,
			State:             types.PhaseStatePending,
			RollbackOnFailure: true,
			Gate:              phaseGate,
			MaxParallelism:    len(cohort),
			Steps:             []*types.Step{deployStep(req)},
		})
	}

	phases = append(phases, postDeployPhase(req, gate), cleanupPhase(req))
	return phases, nil
}

// splitCohorts partitions servers into canary / extended / remainder,
// each cohort at least one server while servers remain
func splitCohorts(servers []string, canaryPct, extendedPct float64) [][]string {
	total := len(servers)
	canaryN := int(math.Ceil(float64(total) * canaryPct / 100))
	if canaryN < 1 {
		canaryN = 1
	}
	if canaryN > total {
		canaryN = total
	}

	extendedN := int(math.Ceil(float64(total)*extendedPct/100)) - canaryN
	if extendedN < 0 {
		extendedN = 0
	}
	if canaryN+extendedN > total {
		extendedN = total - canaryN
	}

	return [][]string{
		servers[:canaryN],
		servers[canaryN : canaryN+extendedN],
		servers[canaryN+extendedN:],
	}
}

func (p *canaryPlanner) Estimate(serverCount int, cfg *types.StrategyConfig) time.Duration {
	gate := healthGate(cfg, p.defaults)
	var observation time.Duration
	if cfg != nil && cfg.Canary != nil {
		observation = cfg.Canary.Observation
	}
	// Three waves, two of them observed.
	return time.Duration(serverCount)*perServerTime + 3*gate.Timeout + 2*observation + bookendTime
}
