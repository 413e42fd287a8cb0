package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/types"
	"github.com/droverhq/drover/pkg/workflow"
)

// StartDeployment plans and launches a deployment workflow
func (s *Server) StartDeployment(ctx context.Context, req *proto.DeploymentRequest) (*proto.DeploymentResponse, error) {
	strategyCfg, err := s.buildStrategyConfig(types.Strategy(req.Strategy), req.Configuration)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	id, err := s.engine.StartDeployment(ctx, &types.WorkflowRequest{
		ServiceName:   req.ServiceName,
		TargetVersion: req.TargetVersion,
		Strategy:      types.Strategy(req.Strategy),
		TargetServers: req.TargetServers,
		Package: types.PackageRef{
			Path:   req.PackagePath,
			SHA256: req.PackageSha256,
		},
		Initiator: initiatorFrom(ctx),
		Priority:  int(req.Priority),
		Config:    strategyCfg,
	})
	if err != nil {
		return nil, faultToStatus(err)
	}
	return &proto.DeploymentResponse{
		Success:    true,
		WorkflowId: id,
		Message:    "workflow started",
	}, nil
}

// GetWorkflow returns the externally visible view of one workflow
func (s *Server) GetWorkflow(ctx context.Context, req *proto.WorkflowQuery) (*proto.WorkflowStatus, error) {
	st, err := s.engine.Status(ctx, req.WorkflowId)
	if err != nil {
		return nil, faultToStatus(err)
	}
	return workflowStatusToProto(st), nil
}

// ListWorkflows lists workflows, optionally filtered by state
func (s *Server) ListWorkflows(ctx context.Context, req *proto.WorkflowListRequest) (*proto.WorkflowList, error) {
	views, err := s.engine.List(ctx, types.WorkflowState(req.State))
	if err != nil {
		return nil, faultToStatus(err)
	}
	out := &proto.WorkflowList{}
	for _, v := range views {
		out.Workflows = append(out.Workflows, workflowStatusToProto(v))
	}
	return out, nil
}

// ControlWorkflow applies pause/resume/cancel to a workflow
func (s *Server) ControlWorkflow(ctx context.Context, req *proto.WorkflowControl) (*proto.WorkflowControlResponse, error) {
	if err := s.engine.Control(ctx, req.WorkflowId, workflow.ControlAction(req.Action)); err != nil {
		return nil, faultToStatus(err)
	}

	resp := &proto.WorkflowControlResponse{
		Success: true,
		Message: fmt.Sprintf("%s accepted", req.Action),
	}
	if st, err := s.engine.Status(ctx, req.WorkflowId); err == nil {
		resp.State = string(st.State)
	}
	return resp, nil
}

// ListAgents lists the fleet, optionally filtered by status and environment
func (s *Server) ListAgents(ctx context.Context, req *proto.AgentListRequest) (*proto.AgentList, error) {
	agents := s.registry.List(types.AgentFilter{
		Status:      types.AgentStatus(req.StatusFilter),
		Environment: req.Environment,
	})
	out := &proto.AgentList{}
	for _, a := range agents {
		out.Agents = append(out.Agents, agentToSummary(a))
	}
	return out, nil
}

// buildStrategyConfig resolves the structured strategy configuration
// from coordinator defaults plus per-request string overrides
func (s *Server) buildStrategyConfig(strat types.Strategy, overrides map[string]string) (*types.StrategyConfig, error) {
	d := s.cfg.Strategy
	cfg := &types.StrategyConfig{
		HealthCheck: &types.HealthCheckConfig{
			Timeout:       d.HealthCheckTimeout,
			RequiredRatio: 1.0,
			MaxRetries:    d.MaxRetries,
		},
	}
	if strat == types.StrategyRolling {
		cfg.Wave = &types.WaveConfig{
			Strategy:       types.WaveStrategy(d.WaveStrategy),
			WaveSize:       d.WaveSize,
			WavePercentage: d.WavePercentage,
			WaveInterval:   d.WaveInterval,
		}
		cfg.Rolling = &types.RollingConfig{
			ParallelWithinWave:  d.ParallelWithinWave,
			MaxParallelism:      d.MaxParallelism,
			DelayBetweenServers: d.DelayBetweenServers,
			MaxFailurePercent:   d.MaxFailureThreshold,
		}
	}
	if strat == types.StrategyCanary {
		cfg.Canary = &types.CanaryConfig{}
	}

	for key, value := range overrides {
		if err := applyOverride(cfg, key, value); err != nil {
			return nil, fmt.Errorf("configuration %q: %w", key, err)
		}
	}
	return cfg, nil
}

func applyOverride(cfg *types.StrategyConfig, key, value string) error {
	switch key {
	case "waveStrategy":
		if cfg.Wave == nil {
			cfg.Wave = &types.WaveConfig{}
		}
		cfg.Wave.Strategy = types.WaveStrategy(value)
	case "waveSize":
		return parseInt(value, func(n int) {
			if cfg.Wave == nil {
				cfg.Wave = &types.WaveConfig{}
			}
			cfg.Wave.WaveSize = n
		})
	case "wavePercentage":
		return parseFloat(value, func(f float64) {
			if cfg.Wave == nil {
				cfg.Wave = &types.WaveConfig{}
			}
			cfg.Wave.WavePercentage = f
		})
	case "waveInterval":
		return parseDuration(value, func(d time.Duration) {
			if cfg.Wave == nil {
				cfg.Wave = &types.WaveConfig{}
			}
			cfg.Wave.WaveInterval = d
		})
	case "parallelWithinWave":
		return parseBool(value, func(b bool) {
			if cfg.Rolling == nil {
				cfg.Rolling = &types.RollingConfig{}
			}
			cfg.Rolling.ParallelWithinWave = b
		})
	case "maxParallelism":
		return parseInt(value, func(n int) {
			if cfg.Rolling == nil {
				cfg.Rolling = &types.RollingConfig{}
			}
			cfg.Rolling.MaxParallelism = n
		})
	case "delayBetweenServers":
		return parseDuration(value, func(d time.Duration) {
			if cfg.Rolling == nil {
				cfg.Rolling = &types.RollingConfig{}
			}
			cfg.Rolling.DelayBetweenServers = d
		})
	case "maxFailurePercent":
		return parseFloat(value, func(f float64) {
			if cfg.Rolling == nil {
				cfg.Rolling = &types.RollingConfig{}
			}
			cfg.Rolling.MaxFailurePercent = f
		})
	case "healthCheckTimeout":
		return parseDuration(value, func(d time.Duration) { cfg.HealthCheck.Timeout = d })
	case "requiredRatio":
		return parseFloat(value, func(f float64) { cfg.HealthCheck.RequiredRatio = f })
	case "canaryPercent":
		return parseFloat(value, func(f float64) {
			if cfg.Canary == nil {
				cfg.Canary = &types.CanaryConfig{}
			}
			cfg.Canary.CanaryPercent = f
		})
	case "extendedPercent":
		return parseFloat(value, func(f float64) {
			if cfg.Canary == nil {
				cfg.Canary = &types.CanaryConfig{}
			}
			cfg.Canary.ExtendedPercent = f
		})
	case "observation":
		return parseDuration(value, func(d time.Duration) {
			if cfg.Canary == nil {
				cfg.Canary = &types.CanaryConfig{}
			}
			cfg.Canary.Observation = d
		})
	default:
		return fmt.Errorf("unknown configuration key")
	}
	return nil
}

func parseInt(value string, apply func(int)) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	apply(n)
	return nil
}

func parseFloat(value string, apply func(float64)) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	apply(f)
	return nil
}

func parseBool(value string, apply func(bool)) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	apply(b)
	return nil
}

func parseDuration(value string, apply func(time.Duration)) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	apply(d)
	return nil
}

// faultToStatus maps domain faults onto gRPC status codes
func faultToStatus(err error) error {
	var f *types.Fault
	if !errors.As(err, &f) {
		return status.Error(codes.Internal, err.Error())
	}
	var code codes.Code
	switch f.Kind {
	case types.ErrValidationFailed:
		code = codes.InvalidArgument
	case types.ErrNotRegistered:
		code = codes.NotFound
	case types.ErrRejected, types.ErrGateFailed:
		code = codes.FailedPrecondition
	case types.ErrTimeout:
		code = codes.DeadlineExceeded
	case types.ErrTransportUnavailable:
		code = codes.Unavailable
	case types.ErrCanceled:
		code = codes.Canceled
	default:
		code = codes.Internal
	}
	return status.Error(code, f.Message)
}
