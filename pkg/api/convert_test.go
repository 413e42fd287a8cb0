package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/types"
)

func TestWireTimeZeroMeansUnset(t *testing.T) {
	assert.EqualValues(t, 0, timeToMs(time.Time{}))
	assert.True(t, msToTime(0).IsZero())

	now := time.Now().Truncate(time.Millisecond).UTC()
	assert.Equal(t, now, msToTime(timeToMs(now)))
}

func TestAgentFromRegistration(t *testing.T) {
	agent := agentFromRegistration(&proto.AgentRegistration{
		Hostname:      "web-01",
		IpAddress:     "10.0.0.5",
		OsType:        "linux",
		OsVersion:     "6.8",
		AgentVersion:  "1.2.0",
		CpuCores:      8,
		TotalMemoryMb: 32768,
		Location:      "us-east-1",
		Environment:   "production",
		Tags:          map[string]string{"rack": "r12"},
	})

	assert.Equal(t, "web-01", agent.Hostname)
	assert.Equal(t, "10.0.0.5", agent.IPAddress)
	assert.Equal(t, 8, agent.CPUCores)
	assert.EqualValues(t, 32768, agent.TotalMemoryMB)
	assert.Equal(t, "production", agent.Environment)
	assert.Equal(t, "r12", agent.Tags["rack"])
}

func TestCommandToProtoCarriesPackageRef(t *testing.T) {
	issued := time.Now().UTC()
	deadline := issued.Add(5 * time.Minute)

	cmd := commandToProto(&types.DeploymentCommand{
		CommandID:   "cmd-1",
		WorkflowID:  "wf-1",
		PhaseID:     "wave-1",
		StepID:      "deploy",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Version:     "2.4.0",
		Strategy:    types.StrategyRolling,
		Operation:   types.OperationDeploy,
		Priority:    5,
		Package: types.PackageRef{
			Path:   "/var/lib/drover/packages/checkout-2.4.0.pkg",
			SHA256: "abc123",
		},
		IssuedAt: issued,
		Deadline: deadline,
	})

	assert.Equal(t, "cmd-1", cmd.CommandId)
	assert.Equal(t, "deploy", cmd.Operation)
	assert.Equal(t, "abc123", cmd.PackageSha256)
	assert.Equal(t, issued.UnixMilli(), cmd.IssuedAtMs)
	assert.Equal(t, deadline.UnixMilli(), cmd.DeadlineMs)
}

func TestWorkflowStatusToProtoSortsServersAndMapsError(t *testing.T) {
	st := &types.WorkflowStatus{
		ID:           "wf-9",
		State:        types.WorkflowStateFailed,
		CurrentPhase: "wave-2",
		PhaseIndex:   2,
		Servers: map[string]types.ServerStepStatus{
			"srv-c": types.ServerStepFailed,
			"srv-a": types.ServerStepSucceeded,
			"srv-b": types.ServerStepSucceeded,
		},
		LastError: types.NewFault(types.ErrGateFailed, "health gate breached"),
	}

	out := workflowStatusToProto(st)
	require.Len(t, out.Servers, 3)
	assert.Equal(t, "srv-a", out.Servers[0].AgentId)
	assert.Equal(t, "srv-b", out.Servers[1].AgentId)
	assert.Equal(t, "srv-c", out.Servers[2].AgentId)
	assert.Equal(t, string(types.ErrGateFailed), out.ErrorKind)
	assert.Equal(t, "health gate breached", out.ErrorMessage)
}
