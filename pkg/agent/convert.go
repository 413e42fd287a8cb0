package agent

import (
	"time"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/types"
)

func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func timeToMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// commandFromProto decodes a piggybacked deployment command from a
// heartbeat response
func commandFromProto(c *proto.DeploymentCommand) *types.DeploymentCommand {
	return &types.DeploymentCommand{
		CommandID:   c.CommandId,
		WorkflowID:  c.WorkflowId,
		PhaseID:     c.PhaseId,
		StepID:      c.StepId,
		AgentID:     c.AgentId,
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Strategy:    types.Strategy(c.Strategy),
		Operation:   types.Operation(c.Operation),
		Priority:    int(c.Priority),
		Package: types.PackageRef{
			Path:   c.PackagePath,
			SHA256: c.PackageSha256,
		},
		Parameters:    c.Parameters,
		IssuedAt:      msToTime(c.IssuedAtMs),
		Deadline:      msToTime(c.DeadlineMs),
		CorrelationID: c.CorrelationId,
	}
}

func serviceToProto(s *types.Service) *proto.ServiceInfo {
	return &proto.ServiceInfo{
		Name:             s.Name,
		DisplayName:      s.DisplayName,
		Version:          s.Version,
		Status:           string(s.Status),
		ProcessId:        int32(s.ProcessID),
		Port:             int32(s.Port),
		ExecutablePath:   s.ExecutablePath,
		WorkingDirectory: s.WorkingDirectory,
		ConfigFilePath:   s.ConfigFilePath,
		StartupType:      s.StartupType,
		ServiceAccount:   s.ServiceAccount,
		LastStartTimeMs:  timeToMs(s.LastStartTime),
		IsActive:         s.IsActive,
	}
}
