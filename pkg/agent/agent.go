package agent

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/security"
	"github.com/droverhq/drover/pkg/types"
)

const (
	rpcTimeout       = 10 * time.Second
	registerMaxWait  = 2 * time.Minute
	agentVersion     = "1.0.0"
	fallbackInterval = 30 * time.Second
)

// Agent is the per-server daemon: it registers with the coordinator,
// reports heartbeats, service snapshots and metrics over gRPC, and
// executes deployment commands arriving on the message fabric.
type Agent struct {
	cfg      *config.AgentConfig
	hostname string
	logger   zerolog.Logger

	conn     *grpc.ClientConn
	client   proto.AgentTransportClient
	fab      *fabric.Fabric
	manager  ServiceManager
	executor *executor

	id       string
	settings settings

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// settings is the reporting cadence handed out on registration
type settings struct {
	heartbeat time.Duration
	discovery time.Duration
	metrics   time.Duration
}

// New builds an agent around the given service manager. Pass
// NewSystemdManager() outside of tests.
func New(cfg *config.AgentConfig, manager ServiceManager) (*Agent, error) {
	hostname := cfg.Hostname
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hostname: %w", err)
		}
		hostname = h
	}

	return &Agent{
		cfg:      cfg,
		hostname: hostname,
		logger:   log.WithComponent("agent"),
		fab:      fabric.New(cfg.Broker),
		manager:  manager,
		settings: settings{
			heartbeat: fallbackInterval,
			discovery: 5 * time.Minute,
			metrics:   time.Minute,
		},
		stopCh: make(chan struct{}),
	}, nil
}

// Start connects to the coordinator and broker, registers, and runs
// the reporting loops until Stop.
func (a *Agent) Start(ctx context.Context) error {
	if err := a.dial(); err != nil {
		return err
	}
	if err := a.register(ctx); err != nil {
		return err
	}

	if err := a.fab.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	a.executor = newExecutor(a.id, a.fab, a.manager, newReleaseStore(a.cfg.DataDir), a.cfg.CommandTimeout)
	queue, err := a.fab.DeclareAgentQueue(a.id)
	if err != nil {
		return err
	}
	a.fab.Consume(ctx, queue, a.executor.handle)

	a.wg.Add(3)
	go a.heartbeatLoop(ctx)
	go a.discoveryLoop(ctx)
	go a.metricsLoop(ctx)

	a.logger.Info().
		Str("agent_id", a.id).
		Str("coordinator", a.cfg.CoordinatorAddr).
		Msg("Agent started")
	return nil
}

// Stop halts the loops, announces departure, and closes both
// transports. In-flight commands finish first: the fabric consumer
// drains before Close returns.
func (a *Agent) Stop() {
	close(a.stopCh)
	a.wg.Wait()

	// Best-effort departure heartbeat so the coordinator flips the
	// agent to disconnected now instead of after the sweep window.
	if a.client != nil && a.id != "" {
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		_, err := a.client.Heartbeat(ctx, &proto.HeartbeatRequest{
			ServerId:    a.id,
			Hostname:    a.hostname,
			AgentStatus: string(types.AgentStatusDisconnected),
			TimestampMs: time.Now().UnixMilli(),
		})
		cancel()
		if err != nil {
			a.logger.Debug().Err(err).Msg("Departure heartbeat failed")
		}
	}

	if a.conn != nil {
		a.conn.Close()
	}
	a.fab.Close()
	a.logger.Info().Str("agent_id", a.id).Msg("Agent stopped")
}

// ID returns the coordinator-assigned agent id, valid after Start
func (a *Agent) ID() string {
	return a.id
}

func (a *Agent) dial() error {
	creds, err := security.ClientCredentials(a.cfg.TLSCA, a.cfg.TLSSkipVerify)
	if err != nil {
		return err
	}

	opts := make([]grpc.DialOption, 0, 2)
	if creds != nil {
		opts = append(opts, grpc.WithTransportCredentials(creds))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if a.cfg.AuthToken != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerCreds{token: a.cfg.AuthToken}))
	}

	conn, err := grpc.NewClient(a.cfg.CoordinatorAddr, opts...)
	if err != nil {
		return fmt.Errorf("failed to dial coordinator: %w", err)
	}
	a.conn = conn
	a.client = proto.NewAgentTransportClient(conn)
	return nil
}

// register announces the agent, retrying with exponential backoff
// until the coordinator answers
func (a *Agent) register(ctx context.Context) error {
	totalMB, _ := memoryMB()
	req := &proto.AgentRegistration{
		Hostname:      a.hostname,
		IpAddress:     localIP(),
		OsType:        runtime.GOOS,
		AgentVersion:  agentVersion,
		CpuCores:      int32(runtime.NumCPU()),
		TotalMemoryMb: totalMB,
		Location:      a.cfg.Location,
		Environment:   a.cfg.Environment,
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = registerMaxWait

	return backoff.Retry(func() error {
		rpcCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
		defer cancel()

		resp, err := a.client.RegisterAgent(rpcCtx, req)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Registration failed, retrying")
			return err
		}
		if !resp.Success {
			return backoff.Permanent(fmt.Errorf("registration rejected: %s", resp.Message))
		}

		a.id = resp.ServerId
		if s := resp.Settings; s != nil {
			if s.HeartbeatIntervalS > 0 {
				a.settings.heartbeat = time.Duration(s.HeartbeatIntervalS) * time.Second
			}
			if s.DiscoveryIntervalS > 0 {
				a.settings.discovery = time.Duration(s.DiscoveryIntervalS) * time.Second
			}
			if s.MetricsIntervalS > 0 {
				a.settings.metrics = time.Duration(s.MetricsIntervalS) * time.Second
			}
		}
		return nil
	}, backoff.WithContext(bo, ctx))
}

// bearerCreds attaches the agent's auth token to every RPC
type bearerCreds struct {
	token string
}

func (c bearerCreds) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + c.token}, nil
}

// RequireTransportSecurity is false so development setups without TLS
// still authenticate
func (c bearerCreds) RequireTransportSecurity() bool {
	return false
}
