package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/metrics"
	"github.com/droverhq/drover/pkg/types"
)

// Registry is the coordinator's live view of the fleet. It is a
// projection over transport traffic (registrations, heartbeats,
// discovery snapshots) and is rebuildable by replaying it; nothing
// here is a system of record.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*types.Agent
	// byHostname maps hostname to agent id for idempotent registration.
	byHostname map[string]string

	heartbeatTimeout time.Duration
	broker           *events.Broker
	logger           zerolog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates an empty registry publishing onto broker
func New(heartbeatTimeout time.Duration, broker *events.Broker) *Registry {
	return &Registry{
		agents:           make(map[string]*types.Agent),
		byHostname:       make(map[string]string),
		heartbeatTimeout: heartbeatTimeout,
		broker:           broker,
		logger:           log.WithComponent("registry"),
		stopCh:           make(chan struct{}),
	}
}

// Start launches the liveness sweeper. The sweep interval is a
// fraction of the heartbeat timeout so a dead agent is noticed within
// one extra sweep at worst.
func (r *Registry) Start(ctx context.Context) {
	interval := r.heartbeatTimeout / 3
	if interval < time.Second {
		interval = time.Second
	}
	go r.sweep(ctx, interval)
}

// Stop halts the sweeper
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Upsert registers or refreshes an agent. Registration is idempotent
// over hostname: a known hostname keeps its agent id and has its
// metadata refreshed. Returns the authoritative agent id.
func (r *Registry) Upsert(info *types.Agent) string {
	r.mu.Lock()

	id := info.ID
	if id == "" {
		if existing, ok := r.byHostname[info.Hostname]; ok {
			id = existing
		} else {
			id = uuid.New().String()
		}
	}

	existing, known := r.agents[id]
	now := time.Now().UTC()

	if known {
		existing.Hostname = info.Hostname
		existing.IPAddress = info.IPAddress
		existing.OSType = info.OSType
		existing.OSVersion = info.OSVersion
		existing.AgentVersion = info.AgentVersion
		existing.CPUCores = info.CPUCores
		existing.TotalMemoryMB = info.TotalMemoryMB
		existing.Location = info.Location
		existing.Environment = info.Environment
		existing.Tags = info.Tags
		existing.Status = types.AgentStatusConnected
		existing.LastHeartbeat = now
	} else {
		agent := *info
		agent.ID = id
		agent.Status = types.AgentStatusConnected
		agent.RegisteredAt = now
		agent.LastHeartbeat = now
		if agent.Services == nil {
			agent.Services = []*types.Service{}
		}
		r.agents[id] = &agent
	}
	r.byHostname[info.Hostname] = id
	r.mu.Unlock()

	r.publishGauges()
	if !known {
		r.logger.Info().Str("agent_id", id).Str("hostname", info.Hostname).Msg("Agent registered")
		r.broker.Publish(&events.Event{
			Type:    events.EventAgentRegistered,
			AgentID: id,
			Message: info.Hostname,
		})
	}
	return id
}

// Hydrate preloads agents persisted by a previous run. Hydrated
// agents come back disconnected until their first heartbeat; ids and
// hostnames already present are left untouched. Returns the number of
// agents restored.
func (r *Registry) Hydrate(agents []*types.Agent) int {
	restored := 0
	r.mu.Lock()
	for _, info := range agents {
		if info.ID == "" || info.Hostname == "" {
			continue
		}
		if _, known := r.agents[info.ID]; known {
			continue
		}
		if _, taken := r.byHostname[info.Hostname]; taken {
			continue
		}
		agent := cloneAgent(info)
		agent.Status = types.AgentStatusDisconnected
		r.agents[info.ID] = agent
		r.byHostname[info.Hostname] = info.ID
		restored++
	}
	r.mu.Unlock()

	if restored > 0 {
		r.publishGauges()
		r.logger.Info().Int("count", restored).Msg("Fleet hydrated from inventory")
	}
	return restored
}

// MarkHeartbeat refreshes an agent's liveness and resource sample.
// Returns false for an unknown agent.
func (r *Registry) MarkHeartbeat(agentID string, m types.AgentMetrics) bool {
	r.mu.Lock()
	agent, ok := r.agents[agentID]
	if !ok {
		r.mu.Unlock()
		return false
	}

	wasDisconnected := agent.Status == types.AgentStatusDisconnected
	agent.Status = types.AgentStatusConnected
	agent.LastHeartbeat = time.Now().UTC()
	r.mu.Unlock()

	metrics.HeartbeatsReceived.Inc()
	if wasDisconnected {
		r.publishGauges()
		r.logger.Info().Str("agent_id", agentID).Msg("Agent reconnected")
		r.broker.Publish(&events.Event{
			Type:    events.EventAgentConnected,
			AgentID: agentID,
		})
	}
	return true
}

// MarkDeparted flips an agent to disconnected immediately, ahead of
// the sweep window. Used when the agent announces shutdown.
func (r *Registry) MarkDeparted(agentID string) bool {
	r.mu.Lock()
	agent, ok := r.agents[agentID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	wasConnected := agent.Status == types.AgentStatusConnected
	agent.Status = types.AgentStatusDisconnected
	r.mu.Unlock()

	r.publishGauges()
	if wasConnected {
		r.logger.Info().Str("agent_id", agentID).Msg("Agent announced shutdown")
		r.broker.Publish(&events.Event{
			Type:    events.EventAgentDisconnected,
			AgentID: agentID,
			Message: "agent announced shutdown",
		})
	}
	return true
}

// MarkError forces an agent into error state, overriding the
// heartbeat-derived status until the next successful heartbeat.
func (r *Registry) MarkError(agentID, reason string) bool {
	r.mu.Lock()
	agent, ok := r.agents[agentID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	agent.Status = types.AgentStatusError
	r.mu.Unlock()

	r.publishGauges()
	r.logger.Warn().Str("agent_id", agentID).Str("reason", reason).Msg("Agent marked errored")
	return true
}

// ReportServices applies a full discovery snapshot for one agent.
// Present services are upserted by name; services absent from two
// consecutive snapshots are flipped to inactive. Returns false for an
// unknown agent.
func (r *Registry) ReportServices(agentID string, snapshot []*types.Service) bool {
	r.mu.Lock()
	agent, ok := r.agents[agentID]
	if !ok {
		r.mu.Unlock()
		return false
	}

	reported := make(map[string]*types.Service, len(snapshot))
	for _, svc := range snapshot {
		reported[svc.Name] = svc
	}

	var changed []*events.Event
	next := make([]*types.Service, 0, len(snapshot))

	for _, current := range agent.Services {
		incoming, present := reported[current.Name]
		if !present {
			current.MissedReports++
			if current.MissedReports >= 2 && current.IsActive {
				current.IsActive = false
				current.Status = types.ServiceStatusUnknown
				changed = append(changed, &events.Event{
					Type:    events.EventServiceStateChanged,
					AgentID: agentID,
					Service: current.Name,
					Message: "absent from two consecutive snapshots",
				})
			}
			next = append(next, current)
			continue
		}

		if current.Status != incoming.Status || !current.IsActive {
			changed = append(changed, &events.Event{
				Type:    events.EventServiceStateChanged,
				AgentID: agentID,
				Service: current.Name,
				Message: string(incoming.Status),
			})
		}
		updated := *incoming
		updated.AgentID = agentID
		updated.IsActive = true
		updated.MissedReports = 0
		next = append(next, &updated)
		delete(reported, current.Name)
	}

	// Anything left is newly discovered.
	for _, incoming := range snapshot {
		if _, isNew := reported[incoming.Name]; !isNew {
			continue
		}
		svc := *incoming
		svc.AgentID = agentID
		svc.IsActive = true
		svc.MissedReports = 0
		next = append(next, &svc)
		changed = append(changed, &events.Event{
			Type:    events.EventServiceStateChanged,
			AgentID: agentID,
			Service: svc.Name,
			Message: string(svc.Status),
		})
	}

	sort.Slice(next, func(i, j int) bool { return next[i].Name < next[j].Name })
	agent.Services = next
	r.mu.Unlock()

	r.publishGauges()
	for _, ev := range changed {
		r.broker.Publish(ev)
	}
	return true
}

// Get returns a copy of the agent, or nil when unknown
func (r *Registry) Get(agentID string) *types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[agentID]
	if !ok {
		return nil
	}
	return cloneAgent(agent)
}

// GetByHostname resolves an agent by hostname
func (r *Registry) GetByHostname(hostname string) *types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byHostname[hostname]
	if !ok {
		return nil
	}
	return cloneAgent(r.agents[id])
}

// List returns copies of agents matching the filter, ordered by hostname
func (r *Registry) List(filter types.AgentFilter) []*types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hostnames := make(map[string]bool, len(filter.Hostnames))
	for _, h := range filter.Hostnames {
		hostnames[h] = true
	}

	var result []*types.Agent
	for _, agent := range r.agents {
		if filter.Status != "" && agent.Status != filter.Status {
			continue
		}
		if filter.Environment != "" && agent.Environment != filter.Environment {
			continue
		}
		if len(hostnames) > 0 && !hostnames[agent.Hostname] {
			continue
		}
		result = append(result, cloneAgent(agent))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Hostname < result[j].Hostname })
	return result
}

// IsHealthy reports whether the agent is known and its last heartbeat
// is inside the timeout window
func (r *Registry) IsHealthy(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[agentID]
	if !ok {
		return false
	}
	if agent.Status == types.AgentStatusError {
		return false
	}
	return time.Since(agent.LastHeartbeat) <= r.heartbeatTimeout
}

// sweep periodically derives disconnected status from heartbeat age
func (r *Registry) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.sweepOnce()
		}
	}
}

func (r *Registry) sweepOnce() {
	now := time.Now()
	var dropped []string

	r.mu.Lock()
	for id, agent := range r.agents {
		if agent.Status != types.AgentStatusConnected {
			continue
		}
		if now.Sub(agent.LastHeartbeat) > r.heartbeatTimeout {
			agent.Status = types.AgentStatusDisconnected
			dropped = append(dropped, id)
		}
	}
	r.mu.Unlock()

	if len(dropped) == 0 {
		return
	}

	r.publishGauges()
	for _, id := range dropped {
		r.logger.Warn().Str("agent_id", id).Msg("Agent missed heartbeat window")
		r.broker.Publish(&events.Event{
			Type:    events.EventAgentDisconnected,
			AgentID: id,
			Message: "missed heartbeat window",
		})
	}
}

func (r *Registry) publishGauges() {
	r.mu.RLock()
	counts := map[types.AgentStatus]int{}
	services := 0
	for _, agent := range r.agents {
		counts[agent.Status]++
		services += len(agent.Services)
	}
	r.mu.RUnlock()

	for _, status := range []types.AgentStatus{
		types.AgentStatusConnected,
		types.AgentStatusDisconnected,
		types.AgentStatusError,
	} {
		metrics.AgentsTotal.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	metrics.ServicesTotal.Set(float64(services))
}

func cloneAgent(agent *types.Agent) *types.Agent {
	clone := *agent
	clone.Services = make([]*types.Service, len(agent.Services))
	for i, svc := range agent.Services {
		s := *svc
		clone.Services[i] = &s
	}
	if agent.Tags != nil {
		clone.Tags = make(map[string]string, len(agent.Tags))
		for k, v := range agent.Tags {
			clone.Tags[k] = v
		}
	}
	return &clone
}
