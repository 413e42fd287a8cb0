package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/types"
)

// fakeManager records service operations and serves canned statuses
type fakeManager struct {
	mu       sync.Mutex
	calls    []string
	statuses map[string]types.ServiceStatus
	failOn   map[string]error
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		statuses: make(map[string]types.ServiceStatus),
		failOn:   make(map[string]error),
	}
}

func (m *fakeManager) record(op, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op+":"+name)
	return m.failOn[op]
}

func (m *fakeManager) Start(ctx context.Context, name string) error {
	if err := m.record("start", name); err != nil {
		return err
	}
	m.mu.Lock()
	m.statuses[name] = types.ServiceStatusRunning
	m.mu.Unlock()
	return nil
}

func (m *fakeManager) Stop(ctx context.Context, name string) error {
	if err := m.record("stop", name); err != nil {
		return err
	}
	m.mu.Lock()
	m.statuses[name] = types.ServiceStatusStopped
	m.mu.Unlock()
	return nil
}

func (m *fakeManager) Restart(ctx context.Context, name string) error {
	return m.record("restart", name)
}

func (m *fakeManager) Status(ctx context.Context, name string) (types.ServiceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.statuses[name]; ok {
		return st, nil
	}
	return types.ServiceStatusUnknown, nil
}

func (m *fakeManager) List(ctx context.Context) ([]*types.Service, error) {
	return nil, nil
}

func (m *fakeManager) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

// capturePublisher collects everything the executor publishes
type capturePublisher struct {
	mu       sync.Mutex
	statuses []*types.StatusUpdate
	results  []*types.CommandResult
	keys     []string
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, payload interface{}, props *fabric.Props) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	switch v := payload.(type) {
	case *types.StatusUpdate:
		p.statuses = append(p.statuses, v)
	case *types.CommandResult:
		p.results = append(p.results, v)
	}
	return nil
}

func (p *capturePublisher) phases() []types.StatusPhase {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.StatusPhase, 0, len(p.statuses))
	for _, s := range p.statuses {
		out = append(out, s.Phase)
	}
	return out
}

func newTestExecutor(t *testing.T) (*executor, *fakeManager, *capturePublisher) {
	t.Helper()
	mgr := newFakeManager()
	pub := &capturePublisher{}
	exec := newExecutor("agent-1", pub, mgr, newReleaseStore(t.TempDir()), 5*time.Second)
	return exec, mgr, pub
}

func writePackage(t *testing.T, content string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkg.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	sum := sha256.Sum256([]byte(content))
	return path, hex.EncodeToString(sum[:])
}

func deployCommand(id, pkgPath, sha string) *types.DeploymentCommand {
	return &types.DeploymentCommand{
		CommandID:   id,
		WorkflowID:  "wf-1",
		PhaseID:     "wave-1",
		StepID:      "deploy",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Version:     "2.0.0",
		Operation:   types.OperationDeploy,
		Package:     types.PackageRef{Path: pkgPath, SHA256: sha},
	}
}

func TestDeployPublishesFullStatusSequence(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)
	pkg, sha := writePackage(t, "release-2.0.0")

	exec.Execute(context.Background(), deployCommand("cmd-1", pkg, sha))

	assert.Equal(t, []types.StatusPhase{
		types.StatusAccepted,
		types.StatusRunning,
		types.StatusProgress,
		types.StatusApplied,
		types.StatusSucceeded,
	}, pub.phases())
	assert.Equal(t, 1, mgr.callCount("start:checkout"))
	assert.Equal(t, "2.0.0", exec.releases.Current("checkout"))
}

func TestDeployFailsOnDigestMismatch(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)
	pkg, _ := writePackage(t, "release-2.0.0")

	exec.Execute(context.Background(), deployCommand("cmd-2", pkg, "deadbeef"))

	phases := pub.phases()
	require.NotEmpty(t, phases)
	assert.Equal(t, types.StatusFailed, phases[len(phases)-1])
	assert.Contains(t, pub.statuses[len(pub.statuses)-1].Reason, "digest")
	assert.Equal(t, 0, mgr.callCount("start:checkout"))
	assert.Empty(t, exec.releases.Current("checkout"))
}

func TestDuplicateCommandReplaysTerminalStatus(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)
	pkg, sha := writePackage(t, "release-2.0.0")
	cmd := deployCommand("cmd-3", pkg, sha)

	exec.Execute(context.Background(), cmd)
	startsBefore := mgr.callCount("start:checkout")
	exec.Execute(context.Background(), cmd)

	assert.Equal(t, startsBefore, mgr.callCount("start:checkout"), "duplicate must not re-run")
	phases := pub.phases()
	assert.Equal(t, types.StatusSucceeded, phases[len(phases)-1])
}

func TestRollbackActivatesPreviousRelease(t *testing.T) {
	exec, _, pub := newTestExecutor(t)

	pkg1, sha1 := writePackage(t, "release-1.0.0")
	first := deployCommand("cmd-4", pkg1, sha1)
	first.Version = "1.0.0"
	exec.Execute(context.Background(), first)

	pkg2, sha2 := writePackage(t, "release-2.0.0")
	exec.Execute(context.Background(), deployCommand("cmd-5", pkg2, sha2))
	require.Equal(t, "2.0.0", exec.releases.Current("checkout"))

	exec.Execute(context.Background(), &types.DeploymentCommand{
		CommandID:   "cmd-6",
		WorkflowID:  "wf-1",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Operation:   types.OperationRollback,
	})

	assert.Equal(t, "1.0.0", exec.releases.Current("checkout"))
	phases := pub.phases()
	assert.Equal(t, types.StatusSucceeded, phases[len(phases)-1])
}

func TestExpiredCommandIsRejected(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)
	cmd := deployCommand("cmd-7", "", "")
	cmd.Deadline = time.Now().Add(-time.Minute)

	exec.Execute(context.Background(), cmd)

	phases := pub.phases()
	require.Len(t, phases, 1)
	assert.Equal(t, types.StatusRejected, phases[0])
	assert.Equal(t, 0, mgr.callCount("start:checkout"))
}

func TestHealthCheckAgainstHTTPEndpoint(t *testing.T) {
	exec, _, pub := newTestExecutor(t)

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	exec.Execute(context.Background(), &types.DeploymentCommand{
		CommandID:   "cmd-8",
		WorkflowID:  "wf-1",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Operation:   types.OperationHealthCheck,
		Parameters:  map[string]string{"healthUrl": healthy.URL},
	})

	phases := pub.phases()
	assert.Equal(t, types.StatusSucceeded, phases[len(phases)-1])

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	exec.Execute(context.Background(), &types.DeploymentCommand{
		CommandID:   "cmd-9",
		WorkflowID:  "wf-1",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Operation:   types.OperationHealthCheck,
		Parameters:  map[string]string{"healthUrl": broken.URL, "healthRetries": "1"},
	})

	phases = pub.phases()
	assert.Equal(t, types.StatusFailed, phases[len(phases)-1])
}

func TestHealthCheckFallsBackToManagerStatus(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)
	mgr.statuses["checkout"] = types.ServiceStatusRunning

	exec.Execute(context.Background(), &types.DeploymentCommand{
		CommandID:   "cmd-10",
		WorkflowID:  "wf-1",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Operation:   types.OperationHealthCheck,
	})

	phases := pub.phases()
	assert.Equal(t, types.StatusSucceeded, phases[len(phases)-1])
}

func TestAdminCommandPublishesCorrelatedResult(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)
	mgr.statuses["checkout"] = types.ServiceStatusRunning

	exec.runAdmin(context.Background(), &types.ServiceCommand{
		CommandID:   "admin-1",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Command:     "restart",
	})

	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Success)
	assert.Equal(t, "admin-1", pub.results[0].CommandID)
	assert.Contains(t, pub.keys, fabric.CommandResultKey("admin-1"))
	assert.Equal(t, 1, mgr.callCount("restart:checkout"))
}

func TestAdminCommandDuplicateServesCachedResult(t *testing.T) {
	exec, mgr, pub := newTestExecutor(t)

	cmd := &types.ServiceCommand{
		CommandID:   "admin-2",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Command:     "start",
	}
	exec.runAdmin(context.Background(), cmd)
	exec.runAdmin(context.Background(), cmd)

	assert.Equal(t, 1, mgr.callCount("start:checkout"))
	assert.Len(t, pub.results, 2)
}

func TestAdminCommandRejectsUnknownVerb(t *testing.T) {
	exec, _, pub := newTestExecutor(t)

	exec.runAdmin(context.Background(), &types.ServiceCommand{
		CommandID:   "admin-3",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Command:     "reboot-datacenter",
	})

	require.Len(t, pub.results, 1)
	assert.False(t, pub.results[0].Success)
	assert.Equal(t, 1, pub.results[0].ExitCode)
}

func TestSwitchTrafficRequiresCommand(t *testing.T) {
	exec, _, pub := newTestExecutor(t)

	exec.Execute(context.Background(), &types.DeploymentCommand{
		CommandID:   "cmd-11",
		WorkflowID:  "wf-1",
		AgentID:     "agent-1",
		ServiceName: "checkout",
		Operation:   types.OperationSwitchTraffic,
	})

	phases := pub.phases()
	assert.Equal(t, types.StatusFailed, phases[len(phases)-1])
}

func TestSeenCacheEviction(t *testing.T) {
	exec, mgr, _ := newTestExecutor(t)
	mgr.statuses["checkout"] = types.ServiceStatusRunning

	for i := 0; i < seenLimit+10; i++ {
		exec.Execute(context.Background(), &types.DeploymentCommand{
			CommandID:   fmt.Sprintf("cmd-evict-%d", i),
			WorkflowID:  "wf-1",
			AgentID:     "agent-1",
			ServiceName: "checkout",
			Operation:   types.OperationHealthCheck,
		})
	}

	exec.mu.Lock()
	defer exec.mu.Unlock()
	assert.LessOrEqual(t, len(exec.seen), seenLimit)
	assert.LessOrEqual(t, len(exec.order), seenLimit)
}
