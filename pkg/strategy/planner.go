package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/types"
)

const (
	// perServerTime is the coarse per-server cost used for deadline
	// estimation. Deliberately pessimistic; deadlines are upper bounds.
	perServerTime = 45 * time.Second
	// bookendTime covers the pre-deploy, post-deploy and cleanup phases
	// in estimates.
	bookendTime = 5 * time.Minute
)

// Planner turns a workflow request into an ordered phase list. Plan is
// a pure function: same request, same plan.
type Planner interface {
	Kind() types.Strategy
	Plan(req *types.WorkflowRequest) ([]*types.Phase, error)
	Validate(cfg *types.StrategyConfig) error
	Estimate(serverCount int, cfg *types.StrategyConfig) time.Duration
}

// Set holds one planner per strategy, sharing configured defaults
type Set struct {
	defaults config.Strategy
	planners map[types.Strategy]Planner
}

// NewSet builds the standard planner set
func NewSet(defaults config.Strategy) *Set {
	s := &Set{
		defaults: defaults,
		planners: make(map[types.Strategy]Planner),
	}
	for _, p := range []Planner{
		&rollingPlanner{defaults: defaults},
		&blueGreenPlanner{defaults: defaults},
		&canaryPlanner{defaults: defaults},
		&immediatePlanner{defaults: defaults},
	} {
		s.planners[p.Kind()] = p
	}
	return s
}

// For returns the planner for a strategy
func (s *Set) For(strategy types.Strategy) (Planner, error) {
	p, ok := s.planners[strategy]
	if !ok {
		return nil, types.NewFault(types.ErrValidationFailed, "unknown strategy %q", strategy)
	}
	return p, nil
}

// Plan validates the request and produces its phase list
func (s *Set) Plan(req *types.WorkflowRequest) ([]*types.Phase, error) {
	if req.ServiceName == "" {
		return nil, types.NewFault(types.ErrValidationFailed, "serviceName is required")
	}
	if req.TargetVersion == "" {
		return nil, types.NewFault(types.ErrValidationFailed, "targetVersion is required")
	}
	if len(req.TargetServers) == 0 {
		return nil, types.NewFault(types.ErrValidationFailed, "targetServers must not be empty")
	}

	p, err := s.For(req.Strategy)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(req.Config); err != nil {
		return nil, err
	}
	return p.Plan(req)
}

// Estimate returns a coarse execution-time upper bound for deadlines
func (s *Set) Estimate(req *types.WorkflowRequest) (time.Duration, error) {
	p, err := s.For(req.Strategy)
	if err != nil {
		return 0, err
	}
	return p.Estimate(len(req.TargetServers), req.Config), nil
}

// healthGate resolves the shared health-check section over defaults
func healthGate(cfg *types.StrategyConfig, defaults config.Strategy) types.HealthGate {
	gate := types.HealthGate{
		Timeout:       defaults.HealthCheckTimeout,
		RequiredRatio: 1.0,
	}
	if cfg == nil || cfg.HealthCheck == nil {
		return gate
	}
	if cfg.HealthCheck.Timeout > 0 {
		gate.Timeout = cfg.HealthCheck.Timeout
	}
	if cfg.HealthCheck.RequiredRatio > 0 {
		gate.RequiredRatio = cfg.HealthCheck.RequiredRatio
	}
	return gate
}

// validateHealthCheck enforces the shared health-check section
func validateHealthCheck(cfg *types.StrategyConfig) error {
	if cfg == nil || cfg.HealthCheck == nil {
		return types.NewFault(types.ErrValidationFailed, "HealthCheckConfiguration is required")
	}
	hc := cfg.HealthCheck
	if hc.Timeout <= 0 {
		return types.NewFault(types.ErrValidationFailed, "healthCheck.timeout must be positive")
	}
	if hc.RequiredRatio <= 0 || hc.RequiredRatio > 1 {
		return types.NewFault(types.ErrValidationFailed, "healthCheck.requiredRatio must be in (0,1]")
	}
	return nil
}

// preDeployPhase is the canonical prologue: environment validation,
// load-balancer readiness, package verification. Nothing has been
// deployed yet so a failure aborts without rollback.
func preDeployPhase(req *types.WorkflowRequest) *types.Phase {
	return &types.Phase{
		ID:            "pre-deploy",
		Name:          "Pre-Deployment",
		Kind:          types.PhaseKindPreDeploy,
		TargetServers: req.TargetServers,
		State:         types.PhaseStatePending,
		Gate:          types.HealthGate{RequiredRatio: 1.0},
		Steps: []*types.Step{
			{
				ID:        "validate-environment",
				Name:      "Validate environment",
				Type:      types.StepTypeValidation,
				Operation: types.OperationHealthCheck,
				Critical:  true,
				State:     types.StepStatePending,
			},
			{
				ID:        "check-load-balancer",
				Name:      "Check load balancer readiness",
				Type:      types.StepTypeValidation,
				Operation: types.OperationHealthCheck,
				Critical:  true,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"target": "load-balancer",
				},
			},
			{
				ID:        "verify-package",
				Name:      "Verify package checksum",
				Type:      types.StepTypeValidation,
				Operation: types.OperationHealthCheck,
				Critical:  true,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"packagePath":   req.Package.Path,
					"packageSha256": req.Package.SHA256,
				},
			},
		},
	}
}

// postDeployPhase is the canonical epilogue before cleanup: health
// checks plus integration tests across every touched server.
func postDeployPhase(req *types.WorkflowRequest, gate types.HealthGate) *types.Phase {
	return &types.Phase{
		ID:                "post-deploy",
		Name:              "Post-Deployment",
		Kind:              types.PhaseKindPostDeploy,
		TargetServers:     req.TargetServers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: true,
		Gate:              gate,
		Steps: []*types.Step{
			{
				ID:        "verify-health",
				Name:      "Verify service health",
				Type:      types.StepTypeHealthCheck,
				Operation: types.OperationHealthCheck,
				Critical:  true,
				State:     types.StepStatePending,
			},
			{
				ID:        "integration-tests",
				Name:      "Run integration tests",
				Type:      types.StepTypeScript,
				Operation: types.OperationHealthCheck,
				Critical:  true,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"suite": "integration",
				},
			},
		},
	}
}

// cleanupPhase never triggers rollback; its steps are best-effort
func cleanupPhase(req *types.WorkflowRequest) *types.Phase {
	return &types.Phase{
		ID:                "cleanup",
		Name:              "Cleanup",
		Kind:              types.PhaseKindCleanup,
		TargetServers:     req.TargetServers,
		State:             types.PhaseStatePending,
		RollbackOnFailure: false,
		Gate:              types.HealthGate{RequiredRatio: 0},
		Steps: []*types.Step{
			{
				ID:        "remove-stale-artifacts",
				Name:      "Remove stale artifacts",
				Type:      types.StepTypeScript,
				Operation: types.OperationHealthCheck,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"task": "prune-releases",
				},
			},
			{
				ID:        "warm-cache",
				Name:      "Warm caches",
				Type:      types.StepTypeScript,
				Operation: types.OperationHealthCheck,
				State:     types.StepStatePending,
				Parameters: map[string]string{
					"task": "cache-warmup",
				},
			},
		},
	}
}

// deployStep is the single command step inside a deployment wave
func deployStep(req *types.WorkflowRequest) *types.Step {
	return &types.Step{
		ID:        "deploy",
		Name:      fmt.Sprintf("Deploy %s %s", req.ServiceName, req.TargetVersion),
		Type:      types.StepTypeCommand,
		Operation: types.OperationDeploy,
		Critical:  true,
		State:     types.StepStatePending,
	}
}

// partitionFixed splits servers into consecutive waves of size n
func partitionFixed(servers []string, n int) [][]string {
	var waves [][]string
	for start := 0; start < len(servers); start += n {
		end := start + n
		if end > len(servers) {
			end = len(servers)
		}
		waves = append(waves, servers[start:end])
	}
	return waves
}

// partitionPercent splits servers into waves of ceil(p% of total)
func partitionPercent(servers []string, p float64) [][]string {
	size := int(math.Ceil(float64(len(servers)) * p / 100))
	if size < 1 {
		size = 1
	}
	return partitionFixed(servers, size)
}
