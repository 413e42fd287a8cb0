package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/registry"
	"github.com/droverhq/drover/pkg/security"
	"github.com/droverhq/drover/pkg/statestore"
	"github.com/droverhq/drover/pkg/types"
	"github.com/droverhq/drover/pkg/workflow"
)

// Agent reporting cadence handed out on registration.
const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultDiscoveryInterval = 5 * time.Minute
	defaultMetricsInterval   = 60 * time.Second

	// maxPiggybackCommands bounds how many queued commands one
	// heartbeat response may carry.
	maxPiggybackCommands = 16

	commandResultTimeout = 30 * time.Second
)

// Server implements both coordinator gRPC services: AgentTransport for
// the fleet and ControlPlane for operators.
type Server struct {
	proto.UnimplementedAgentTransportServer
	proto.UnimplementedControlPlaneServer

	cfg       *config.Config
	registry  *registry.Registry
	engine    *workflow.Engine
	store     *statestore.Store
	fab       *fabric.Fabric
	authority *security.TokenAuthority
	results   *resultWaiter
	grpc      *grpc.Server
	logger    zerolog.Logger
	startedAt time.Time
}

// NewServer wires the coordinator API over the registry, engine, state
// store and fabric. A nil authority disables authentication
// (development only).
func NewServer(cfg *config.Config, reg *registry.Registry, eng *workflow.Engine, store *statestore.Store, fab *fabric.Fabric, authority *security.TokenAuthority) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		registry:  reg,
		engine:    eng,
		store:     store,
		fab:       fab,
		authority: authority,
		results:   newResultWaiter(fab),
		logger:    log.WithComponent("api"),
		startedAt: time.Now(),
	}

	creds, err := security.ServerCredentials(cfg.Transport)
	if err != nil {
		return nil, err
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.metricsUnary(), s.authUnary()),
		grpc.ChainStreamInterceptor(s.metricsStream(), s.authStream()),
	}
	if creds != nil {
		opts = append(opts, grpc.Creds(creds))
	}
	s.grpc = grpc.NewServer(opts...)
	proto.RegisterAgentTransportServer(s.grpc, s)
	proto.RegisterControlPlaneServer(s.grpc, s)
	return s, nil
}

// Start begins serving on the configured listener. Blocks until the
// server stops.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Transport.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Transport.ListenAddr, err)
	}

	s.results.Start(ctx)
	s.logger.Info().Str("addr", s.cfg.Transport.ListenAddr).Msg("Coordinator API listening")
	return s.grpc.Serve(lis)
}

// Stop drains in-flight RPCs and stops the listener
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

// RegisterAgent establishes agent identity. Idempotent per hostname.
func (s *Server) RegisterAgent(ctx context.Context, req *proto.AgentRegistration) (*proto.RegistrationResponse, error) {
	if req.Hostname == "" {
		return nil, status.Error(codes.InvalidArgument, "hostname is required")
	}

	id := s.registry.Upsert(agentFromRegistration(req))
	s.logger.Info().Str("agent_id", id).Str("hostname", req.Hostname).Msg("Agent registered")

	return &proto.RegistrationResponse{
		Success:  true,
		ServerId: id,
		Message:  "registered",
		Settings: &proto.AgentSettings{
			HeartbeatIntervalS: int32(defaultHeartbeatInterval / time.Second),
			DiscoveryIntervalS: int32(defaultDiscoveryInterval / time.Second),
			MetricsIntervalS:   int32(defaultMetricsInterval / time.Second),
		},
	}, nil
}

// Heartbeat refreshes liveness and drains the agent's fallback command
// queue into the response.
func (s *Server) Heartbeat(ctx context.Context, req *proto.HeartbeatRequest) (*proto.HeartbeatResponse, error) {
	// A departing agent announces disconnect instead of liveness; no
	// commands ride back on its last heartbeat.
	if req.AgentStatus == string(types.AgentStatusDisconnected) {
		if !s.registry.MarkDeparted(req.ServerId) {
			return nil, s.notRegistered(req.ServerId)
		}
		return &proto.HeartbeatResponse{Success: true}, nil
	}

	known := s.registry.MarkHeartbeat(req.ServerId, types.AgentMetrics{
		CPUPercent:   req.CpuPct,
		MemoryMB:     req.MemMb,
		ServiceCount: int(req.ServiceCount),
		Timestamp:    msToTime(req.TimestampMs),
	})
	if !known {
		return nil, s.notRegistered(req.ServerId)
	}
	if req.AgentStatus == string(types.AgentStatusError) {
		s.registry.MarkError(req.ServerId, "agent reported error status")
	}

	resp := &proto.HeartbeatResponse{Success: true}
	for len(resp.PendingCommands) < maxPiggybackCommands {
		var cmd types.DeploymentCommand
		found, err := s.store.RPop(ctx, workflow.AgentCommandQueue(req.ServerId), &cmd)
		if err != nil {
			s.logger.Warn().Err(err).Str("agent_id", req.ServerId).Msg("Failed to drain fallback command queue")
			break
		}
		if !found {
			break
		}
		resp.PendingCommands = append(resp.PendingCommands, commandToProto(&cmd))
	}
	return resp, nil
}

// ReportServices ingests a full service snapshot for one agent
func (s *Server) ReportServices(ctx context.Context, req *proto.ServiceDiscovery) (*proto.ServiceDiscoveryResponse, error) {
	snapshot := make([]*types.Service, 0, len(req.Services))
	for _, svc := range req.Services {
		snapshot = append(snapshot, serviceFromProto(req.ServerId, svc))
	}
	if !s.registry.ReportServices(req.ServerId, snapshot) {
		return nil, s.notRegistered(req.ServerId)
	}
	return &proto.ServiceDiscoveryResponse{Success: true}, nil
}

// StreamMetrics ingests metric batches and forwards each batch whole
// to the metrics queue
func (s *Server) StreamMetrics(stream proto.AgentTransport_StreamMetricsServer) error {
	var received int64
	for {
		batch, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stream.SendAndClose(&proto.MetricsSummary{
					Success:  true,
					Received: received,
				})
			}
			return err
		}

		converted := make([]*types.Metric, 0, len(batch.Metrics))
		for _, m := range batch.Metrics {
			converted = append(converted, metricFromProto(batch.ServerId, m))
		}
		if err := s.fab.Publish(stream.Context(), fabric.MetricsKey(batch.ServerId), converted, nil); err != nil {
			s.logger.Warn().Err(err).Str("agent_id", batch.ServerId).Msg("Failed to forward metrics batch")
			continue
		}
		received += int64(len(batch.Metrics))
	}
}

// ExecuteServiceCommand relays a synchronous admin command to the
// target agent and waits for its result.
func (s *Server) ExecuteServiceCommand(ctx context.Context, req *proto.ServiceCommand) (*proto.CommandResult, error) {
	return s.dispatchCommand(ctx, serviceCommandFromProto(req))
}

// RunServiceCommand is the operator-facing alias of
// ExecuteServiceCommand on the control plane surface.
func (s *Server) RunServiceCommand(ctx context.Context, req *proto.ServiceCommand) (*proto.CommandResult, error) {
	return s.dispatchCommand(ctx, serviceCommandFromProto(req))
}

func (s *Server) dispatchCommand(ctx context.Context, cmd *types.ServiceCommand) (*proto.CommandResult, error) {
	switch cmd.Command {
	case "start", "stop", "restart", "status":
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown command %q", cmd.Command)
	}
	if cmd.AgentID == "" || cmd.ServiceName == "" {
		return nil, status.Error(codes.InvalidArgument, "serverId and serviceName are required")
	}
	if s.registry.Get(cmd.AgentID) == nil {
		return nil, s.notRegistered(cmd.AgentID)
	}
	if cmd.CommandID == "" {
		cmd.CommandID = uuid.New().String()
	}
	cmd.IssuedAt = time.Now().UTC()

	waiter := s.results.expect(cmd.CommandID)
	defer s.results.forget(cmd.CommandID)

	err := s.fab.Publish(ctx, fabric.PriorityKey(cmd.AgentID), cmd, &fabric.Props{
		Priority:      10,
		CorrelationID: cmd.CommandID,
		Expiration:    commandResultTimeout,
	})
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "failed to dispatch command: %v", err)
	}

	select {
	case result := <-waiter:
		return resultToProto(result), nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	case <-time.After(commandResultTimeout):
		return nil, status.Errorf(codes.DeadlineExceeded, "agent %s did not answer command %s", cmd.AgentID, cmd.CommandID)
	}
}

// RollbackService dispatches rollback commands to every agent hosting
// the service. Fire-and-forget: per-server outcomes arrive as status
// updates on the fabric.
func (s *Server) RollbackService(ctx context.Context, req *proto.RollbackRequest) (*proto.RollbackResult, error) {
	if req.ServiceName == "" {
		return nil, status.Error(codes.InvalidArgument, "serviceName is required")
	}

	var dispatched int
	var currentVersion string
	for _, agent := range s.registry.List(types.AgentFilter{}) {
		hosts := false
		for _, svc := range agent.Services {
			if svc.Name == req.ServiceName {
				hosts = true
				currentVersion = svc.Version
				break
			}
		}
		if !hosts {
			continue
		}

		cmd := &types.DeploymentCommand{
			CommandID:   uuid.New().String(),
			AgentID:     agent.ID,
			ServiceName: req.ServiceName,
			Version:     req.TargetVersion,
			Operation:   types.OperationRollback,
			IssuedAt:    time.Now().UTC(),
		}
		if err := s.fab.Publish(ctx, fabric.CommandKey(string(types.OperationRollback), agent.ID), cmd, nil); err != nil {
			return nil, status.Errorf(codes.Unavailable, "failed to dispatch rollback: %v", err)
		}
		dispatched++
	}

	if dispatched == 0 {
		return nil, status.Errorf(codes.NotFound, "no agent hosts service %s", req.ServiceName)
	}
	return &proto.RollbackResult{
		Success:         true,
		Message:         fmt.Sprintf("rollback dispatched to %d server(s)", dispatched),
		PreviousVersion: currentVersion,
		CurrentVersion:  req.TargetVersion,
	}, nil
}

// notRegistered maps an unknown agent to a transient error during the
// startup grace period (the registry may not have heard from everyone
// yet) and a hard NotFound afterwards.
func (s *Server) notRegistered(agentID string) error {
	if time.Since(s.startedAt) < s.cfg.Transport.RegistrationGrace {
		return status.Errorf(codes.Unavailable, "agent %s not registered yet, retry", agentID)
	}
	return status.Errorf(codes.NotFound, "agent %s is not registered", agentID)
}
