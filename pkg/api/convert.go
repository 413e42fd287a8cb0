package api

import (
	"sort"
	"time"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/types"
)

// Wire times are unix milliseconds; zero means unset.

func timeToMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func agentFromRegistration(req *proto.AgentRegistration) *types.Agent {
	return &types.Agent{
		Hostname:      req.Hostname,
		IPAddress:     req.IpAddress,
		OSType:        req.OsType,
		OSVersion:     req.OsVersion,
		AgentVersion:  req.AgentVersion,
		CPUCores:      int(req.CpuCores),
		TotalMemoryMB: req.TotalMemoryMb,
		Location:      req.Location,
		Environment:   req.Environment,
		Tags:          req.Tags,
	}
}

func serviceFromProto(agentID string, s *proto.ServiceInfo) *types.Service {
	return &types.Service{
		AgentID:          agentID,
		Name:             s.Name,
		DisplayName:      s.DisplayName,
		Version:          s.Version,
		Status:           types.ServiceStatus(s.Status),
		ProcessID:        int(s.ProcessId),
		Port:             int(s.Port),
		ExecutablePath:   s.ExecutablePath,
		WorkingDirectory: s.WorkingDirectory,
		ConfigFilePath:   s.ConfigFilePath,
		StartupType:      s.StartupType,
		ServiceAccount:   s.ServiceAccount,
		LastStartTime:    msToTime(s.LastStartTimeMs),
		IsActive:         s.IsActive,
	}
}

func metricFromProto(agentID string, m *proto.Metric) *types.Metric {
	return &types.Metric{
		AgentID:    agentID,
		ServiceID:  m.ServiceId,
		MetricType: m.MetricType,
		MetricName: m.MetricName,
		Value:      m.Value,
		Unit:       m.Unit,
		Timestamp:  msToTime(m.TimestampMs),
		Tags:       m.Tags,
	}
}

func commandToProto(c *types.DeploymentCommand) *proto.DeploymentCommand {
	return &proto.DeploymentCommand{
		CommandId:     c.CommandID,
		WorkflowId:    c.WorkflowID,
		PhaseId:       c.PhaseID,
		StepId:        c.StepID,
		AgentId:       c.AgentID,
		ServiceName:   c.ServiceName,
		Version:       c.Version,
		Strategy:      string(c.Strategy),
		Operation:     string(c.Operation),
		Priority:      int32(c.Priority),
		PackagePath:   c.Package.Path,
		PackageSha256: c.Package.SHA256,
		IssuedAtMs:    timeToMs(c.IssuedAt),
		DeadlineMs:    timeToMs(c.Deadline),
		CorrelationId: c.CorrelationID,
		Parameters:    c.Parameters,
	}
}

func serviceCommandFromProto(c *proto.ServiceCommand) *types.ServiceCommand {
	return &types.ServiceCommand{
		CommandID:   c.CommandId,
		AgentID:     c.ServerId,
		ServiceName: c.ServiceName,
		Command:     c.Command,
		IssuedAt:    msToTime(c.IssuedAtMs),
	}
}

func resultToProto(r *types.CommandResult) *proto.CommandResult {
	return &proto.CommandResult{
		CommandId:    r.CommandID,
		Success:      r.Success,
		Message:      r.Message,
		ExitCode:     int32(r.ExitCode),
		ExecutedAtMs: timeToMs(r.ExecutedAt),
	}
}

func workflowStatusToProto(st *types.WorkflowStatus) *proto.WorkflowStatus {
	out := &proto.WorkflowStatus{
		WorkflowId:   st.ID,
		State:        string(st.State),
		CurrentPhase: st.CurrentPhase,
		PhaseIndex:   int32(st.PhaseIndex),
		CreatedAtMs:  timeToMs(st.CreatedAt),
		UpdatedAtMs:  timeToMs(st.UpdatedAt),
		DeadlineMs:   timeToMs(st.Deadline),
	}
	if st.LastError != nil {
		out.ErrorKind = string(st.LastError.Kind)
		out.ErrorMessage = st.LastError.Message
	}

	servers := make([]string, 0, len(st.Servers))
	for server := range st.Servers {
		servers = append(servers, server)
	}
	sort.Strings(servers)
	for _, server := range servers {
		out.Servers = append(out.Servers, &proto.ServerState{
			AgentId: server,
			Status:  string(st.Servers[server]),
		})
	}
	return out
}

func agentToSummary(a *types.Agent) *proto.AgentSummary {
	return &proto.AgentSummary{
		AgentId:         a.ID,
		Hostname:        a.Hostname,
		IpAddress:       a.IPAddress,
		Environment:     a.Environment,
		Status:          string(a.Status),
		LastHeartbeatMs: timeToMs(a.LastHeartbeat),
		ServiceCount:    int32(len(a.Services)),
		AgentVersion:    a.AgentVersion,
	}
}
