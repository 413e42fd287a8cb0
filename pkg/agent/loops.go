package agent

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/types"
)

// heartbeatLoop reports liveness on the registration cadence and runs
// any commands piggybacked on the response.
func (a *Agent) heartbeatLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.settings.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.sendHeartbeat(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("Heartbeat failed")
				// A wiped coordinator forgets the fleet; NotFound after
				// the grace window means register again.
				if status.Code(err) == codes.NotFound {
					if rerr := a.register(ctx); rerr != nil {
						a.logger.Error().Err(rerr).Msg("Re-registration failed")
					}
				}
			}
		case <-a.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *Agent) sendHeartbeat(ctx context.Context) error {
	_, usedMB := memoryMB()
	services, _ := a.manager.List(ctx)

	rpcCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	resp, err := a.client.Heartbeat(rpcCtx, &proto.HeartbeatRequest{
		ServerId:     a.id,
		Hostname:     a.hostname,
		AgentStatus:  string(types.AgentStatusConnected),
		TimestampMs:  time.Now().UnixMilli(),
		CpuPct:       cpuPercent(),
		MemMb:        usedMB,
		ServiceCount: int32(len(services)),
	})
	if err != nil {
		return err
	}

	for _, pc := range resp.PendingCommands {
		cmd := commandFromProto(pc)
		a.logger.Info().
			Str("command_id", cmd.CommandID).
			Str("operation", string(cmd.Operation)).
			Msg("Executing piggybacked command")
		go a.executor.Execute(ctx, cmd)
	}
	return nil
}

// discoveryLoop reports the full local service snapshot
func (a *Agent) discoveryLoop(ctx context.Context) {
	defer a.wg.Done()

	// First snapshot right away so the registry is not blind for the
	// whole first interval.
	a.reportServices(ctx)

	ticker := time.NewTicker(a.settings.discovery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.reportServices(ctx)
		case <-a.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *Agent) reportServices(ctx context.Context) {
	services, err := a.manager.List(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Service discovery failed")
		return
	}

	infos := make([]*proto.ServiceInfo, 0, len(services))
	for _, svc := range services {
		infos = append(infos, serviceToProto(svc))
	}

	rpcCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	if _, err := a.client.ReportServices(rpcCtx, &proto.ServiceDiscovery{
		ServerId: a.id,
		Services: infos,
	}); err != nil {
		a.logger.Warn().Err(err).Msg("Service report failed")
	}
}

// metricsLoop streams one host metrics batch per interval
func (a *Agent) metricsLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.settings.metrics)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.sendMetrics(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("Metrics stream failed")
			}
		case <-a.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *Agent) sendMetrics(ctx context.Context) error {
	now := time.Now().UnixMilli()
	_, usedMB := memoryMB()
	batch := &proto.MetricsBatch{
		ServerId: a.id,
		Metrics: []*proto.Metric{
			{
				MetricType:  "host",
				MetricName:  "cpu_percent",
				Value:       cpuPercent(),
				Unit:        "percent",
				TimestampMs: now,
			},
			{
				MetricType:  "host",
				MetricName:  "memory_used",
				Value:       float64(usedMB),
				Unit:        "MB",
				TimestampMs: now,
			},
		},
	}

	rpcCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	stream, err := a.client.StreamMetrics(rpcCtx)
	if err != nil {
		return err
	}
	if err := stream.Send(batch); err != nil {
		return err
	}
	_, err = stream.CloseAndRecv()
	return err
}
