package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/types"
)

func testInventory(t *testing.T) *Inventory {
	t.Helper()
	inv, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { inv.Close() })
	return inv
}

func TestAgentRoundTrip(t *testing.T) {
	inv := testInventory(t)

	require.NoError(t, inv.SaveAgent(&types.Agent{
		ID:       "a-2",
		Hostname: "web-02",
		Status:   types.AgentStatusConnected,
		Services: []*types.Service{{Name: "checkout", Status: types.ServiceStatusRunning}},
	}))
	require.NoError(t, inv.SaveAgent(&types.Agent{
		ID:       "a-1",
		Hostname: "web-01",
		Status:   types.AgentStatusDisconnected,
	}))

	agents, err := inv.Agents()
	require.NoError(t, err)
	require.Len(t, agents, 2)

	assert.Equal(t, "web-01", agents[0].Hostname)
	assert.Equal(t, "web-02", agents[1].Hostname)
	require.Len(t, agents[1].Services, 1)
	assert.Equal(t, "checkout", agents[1].Services[0].Name)
}

func TestSaveAgentUpserts(t *testing.T) {
	inv := testInventory(t)

	require.NoError(t, inv.SaveAgent(&types.Agent{ID: "a-1", Hostname: "web-01", AgentVersion: "1.0.0"}))
	require.NoError(t, inv.SaveAgent(&types.Agent{ID: "a-1", Hostname: "web-01", AgentVersion: "1.1.0"}))

	agents, err := inv.Agents()
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "1.1.0", agents[0].AgentVersion)
}

func TestSaveAgentRequiresID(t *testing.T) {
	inv := testInventory(t)
	assert.Error(t, inv.SaveAgent(&types.Agent{Hostname: "web-01"}))
}

func TestAgentServices(t *testing.T) {
	inv := testInventory(t)

	require.NoError(t, inv.SaveAgent(&types.Agent{
		ID:       "a-1",
		Hostname: "web-01",
		Services: []*types.Service{
			{Name: "checkout", Status: types.ServiceStatusRunning},
			{Name: "payments", Status: types.ServiceStatusStopped},
		},
	}))

	services, err := inv.AgentServices("a-1")
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "checkout", services[0].Name)

	missing, err := inv.AgentServices("ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteAgent(t *testing.T) {
	inv := testInventory(t)

	require.NoError(t, inv.SaveAgent(&types.Agent{ID: "a-1", Hostname: "web-01"}))
	require.NoError(t, inv.DeleteAgent("a-1"))
	require.NoError(t, inv.DeleteAgent("never-existed"))

	agents, err := inv.Agents()
	require.NoError(t, err)
	assert.Empty(t, agents)
}

func TestWorkflowRecordsNewestFirst(t *testing.T) {
	inv := testInventory(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for n := 0; n < 3; n++ {
		require.NoError(t, inv.RecordWorkflow(&WorkflowRecord{
			ID:         fmt.Sprintf("wf-%d", n),
			Service:    "checkout",
			State:      string(types.WorkflowStateSucceeded),
			FinishedAt: base.Add(time.Duration(n) * time.Minute),
		}))
	}

	records, err := inv.WorkflowRecords(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "wf-2", records[0].ID)
	assert.Equal(t, "wf-1", records[1].ID)

	all, err := inv.WorkflowRecords(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWorkflowHistoryPruned(t *testing.T) {
	inv := testInventory(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for n := 0; n < maxWorkflowRecords+10; n++ {
		require.NoError(t, inv.RecordWorkflow(&WorkflowRecord{
			ID:         fmt.Sprintf("wf-%d", n),
			Service:    "checkout",
			State:      string(types.WorkflowStateSucceeded),
			FinishedAt: base.Add(time.Duration(n) * time.Second),
		}))
	}

	records, err := inv.WorkflowRecords(0)
	require.NoError(t, err)
	require.Len(t, records, maxWorkflowRecords)

	// Oldest entries gave way, newest survived.
	assert.Equal(t, fmt.Sprintf("wf-%d", maxWorkflowRecords+9), records[0].ID)
}

type fakeAgentSource struct {
	agents map[string]*types.Agent
}

func (f *fakeAgentSource) Get(id string) *types.Agent { return f.agents[id] }

type fakeWorkflowSource struct {
	statuses map[string]*types.WorkflowStatus
}

func (f *fakeWorkflowSource) Status(_ context.Context, id string) (*types.WorkflowStatus, error) {
	st, ok := f.statuses[id]
	if !ok {
		return nil, fmt.Errorf("workflow %s not found", id)
	}
	return st, nil
}

func TestRecorderSnapshotsAgentOnFleetEvent(t *testing.T) {
	inv := testInventory(t)
	rec := NewRecorder(inv,
		&fakeAgentSource{agents: map[string]*types.Agent{
			"a-1": {ID: "a-1", Hostname: "web-01", Status: types.AgentStatusConnected},
		}},
		&fakeWorkflowSource{},
	)

	rec.handle(context.Background(), &events.Event{
		Type:    events.EventAgentRegistered,
		AgentID: "a-1",
	})
	// Unknown agents are skipped, not persisted empty.
	rec.handle(context.Background(), &events.Event{
		Type:    events.EventAgentConnected,
		AgentID: "ghost",
	})

	agents, err := inv.Agents()
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "web-01", agents[0].Hostname)
}

func TestRecorderRecordsTerminalWorkflow(t *testing.T) {
	inv := testInventory(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(inv,
		&fakeAgentSource{},
		&fakeWorkflowSource{statuses: map[string]*types.WorkflowStatus{
			"wf-1": {
				ID:        "wf-1",
				State:     types.WorkflowStateFailed,
				CreatedAt: created,
				UpdatedAt: created.Add(5 * time.Minute),
				Servers: map[string]types.ServerStepStatus{
					"web-01": types.ServerStepSucceeded,
					"web-02": types.ServerStepFailed,
					"web-03": types.ServerStepRunning,
				},
			},
		}},
	)

	rec.handle(context.Background(), &events.Event{
		Type:       events.EventWorkflowFailed,
		WorkflowID: "wf-1",
		Service:    "checkout",
		Message:    "health gate breached",
	})

	records, err := inv.WorkflowRecords(1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "wf-1", got.ID)
	assert.Equal(t, "checkout", got.Service)
	assert.Equal(t, string(types.WorkflowStateFailed), got.State)
	assert.Equal(t, "health gate breached", got.Error)
	assert.Equal(t, created, got.StartedAt)
	assert.Equal(t, 3, got.ServersTotal)
	assert.Equal(t, 1, got.ServersSucceeded)
	assert.Equal(t, 1, got.ServersFailed)
}

func TestRecorderRecordsWorkflowWithoutStoreView(t *testing.T) {
	inv := testInventory(t)
	rec := NewRecorder(inv, &fakeAgentSource{}, &fakeWorkflowSource{})

	rec.handle(context.Background(), &events.Event{
		Type:       events.EventWorkflowSucceeded,
		WorkflowID: "wf-9",
		Service:    "payments",
	})

	records, err := inv.WorkflowRecords(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, string(types.WorkflowStateSucceeded), records[0].State)
	assert.Zero(t, records[0].ServersTotal)
	assert.False(t, records[0].FinishedAt.IsZero())
}
