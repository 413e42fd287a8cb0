package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/alerts"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/statestore"
	"github.com/droverhq/drover/pkg/strategy"
	"github.com/droverhq/drover/pkg/types"
)

// fakeTransport stands in for the message fabric: it records published
// commands and plays the agent side by feeding statuses back through
// HandleStatus, the same entry point the real status consumer uses.
type fakeTransport struct {
	mu            sync.Mutex
	engine        *Engine
	silent        bool
	duplicate     bool
	delay         time.Duration
	failDeployOn  map[string]bool
	commands      []types.DeploymentCommand
	alerts        []types.Alert
	concurrent    int
	maxConcurrent int
}

func (f *fakeTransport) bind(e *Engine) {
	f.mu.Lock()
	f.engine = e
	f.mu.Unlock()
}

func (f *fakeTransport) Publish(ctx context.Context, routingKey string, payload interface{}, props *fabric.Props) error {
	switch msg := payload.(type) {
	case *types.DeploymentCommand:
		f.mu.Lock()
		f.commands = append(f.commands, *msg)
		silent := f.silent || msg.Operation == types.OperationStop
		fail := f.failDeployOn[msg.AgentID] && msg.Operation == types.OperationDeploy
		eng := f.engine
		if !silent {
			f.concurrent++
			if f.concurrent > f.maxConcurrent {
				f.maxConcurrent = f.concurrent
			}
		}
		f.mu.Unlock()
		if !silent {
			go f.respond(eng, *msg, fail)
		}
	case *types.Alert:
		f.mu.Lock()
		f.alerts = append(f.alerts, *msg)
		f.mu.Unlock()
	}
	return nil
}

func (f *fakeTransport) respond(eng *Engine, cmd types.DeploymentCommand, fail bool) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	send := func(phase types.StatusPhase) {
		eng.HandleStatus(&types.StatusUpdate{
			CommandID:  cmd.CommandID,
			WorkflowID: cmd.WorkflowID,
			AgentID:    cmd.AgentID,
			Timestamp:  time.Now().UTC(),
			Phase:      phase,
		})
	}

	send(types.StatusAccepted)
	send(types.StatusRunning)
	terminal := types.StatusSucceeded
	if fail {
		terminal = types.StatusFailed
	} else {
		send(types.StatusApplied)
	}

	f.mu.Lock()
	f.concurrent--
	f.mu.Unlock()

	send(terminal)
	if f.duplicate {
		send(terminal)
	}
}

func (f *fakeTransport) commandsFor(op types.Operation) []types.DeploymentCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.DeploymentCommand
	for _, c := range f.commands {
		if c.Operation == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTransport) agentsFor(op types.Operation) map[string]bool {
	out := map[string]bool{}
	for _, c := range f.commandsFor(op) {
		out[c.AgentID] = true
	}
	return out
}

type allHealthy struct{}

func (allHealthy) IsHealthy(string) bool { return true }

func testWorkflowConfig() config.Workflow {
	return config.Workflow{
		HeartbeatTimeout:          5 * time.Second,
		LeaseTTL:                  2 * time.Second,
		LeaseRenew:                200 * time.Millisecond,
		MaxParallelismDefault:     4,
		DefaultHealthCheckTimeout: 2 * time.Second,
		MaxInflightGlobal:         64,
		ReissueWindow:             100 * time.Millisecond,
	}
}

func newTestEngine(t *testing.T, transport *fakeTransport, store *statestore.Store) (*Engine, *events.Broker) {
	t.Helper()

	broker := events.NewBroker()
	broker.Start()
	t.Cleanup(broker.Stop)

	bus := alerts.New(transport, time.Minute)
	eng := New(testWorkflowConfig(), strategy.NewSet(config.Default().Strategy), store, transport, allHealthy{}, broker, bus)
	transport.bind(eng)
	t.Cleanup(eng.Stop)
	return eng, broker
}

func awaitEvent(t *testing.T, sub events.Subscriber) *events.Event {
	t.Helper()
	select {
	case ev := <-sub:
		return ev
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func newEngineStore(t *testing.T) *statestore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return statestore.NewWithClient(client)
}

func rollingRequest(servers []string, waveSize int) *types.WorkflowRequest {
	return &types.WorkflowRequest{
		ServiceName:   "web",
		TargetVersion: "2.0.0",
		Strategy:      types.StrategyRolling,
		TargetServers: servers,
		Config: &types.StrategyConfig{
			Wave: &types.WaveConfig{
				Strategy:     types.WaveStrategyFixedSize,
				WaveSize:     waveSize,
				WaveInterval: 10 * time.Millisecond,
			},
			Rolling: &types.RollingConfig{
				ParallelWithinWave: true,
				MaxParallelism:     4,
				MaxFailurePercent:  25,
			},
			HealthCheck: &types.HealthCheckConfig{
				Timeout:       2 * time.Second,
				RequiredRatio: 1.0,
			},
		},
	}
}

func immediateRequest(servers []string) *types.WorkflowRequest {
	return &types.WorkflowRequest{
		ServiceName:   "web",
		TargetVersion: "2.0.0",
		Strategy:      types.StrategyImmediate,
		TargetServers: servers,
		Config: &types.StrategyConfig{
			HealthCheck: &types.HealthCheckConfig{
				Timeout:       2 * time.Second,
				RequiredRatio: 1.0,
			},
		},
	}
}

func waitForState(t *testing.T, eng *Engine, id string, want types.WorkflowState) {
	t.Helper()
	require.Eventually(t, func() bool {
		st, err := eng.Status(context.Background(), id)
		return err == nil && st.State == want
	}, 10*time.Second, 20*time.Millisecond, "workflow never reached %s", want)
}

func TestDeploymentCompletesThroughWavesInOrder(t *testing.T) {
	transport := &fakeTransport{}
	eng, _ := newTestEngine(t, transport, newEngineStore(t))

	servers := []string{"s1", "s2", "s3", "s4"}
	id, err := eng.StartDeployment(context.Background(), rollingRequest(servers, 2))
	require.NoError(t, err)

	waitForState(t, eng, id, types.WorkflowStateSucceeded)

	deploys := transport.commandsFor(types.OperationDeploy)
	require.Len(t, deploys, 4, "each server deploys exactly once")

	// All wave-1 deploys are issued before any wave-2 deploy.
	lastWave1, firstWave2 := -1, len(deploys)
	for i, c := range deploys {
		switch c.PhaseID {
		case "wave-1":
			lastWave1 = i
		case "wave-2":
			if i < firstWave2 {
				firstWave2 = i
			}
		}
	}
	assert.Less(t, lastWave1, firstWave2, "wave-1 must finish issuing before wave-2 starts")

	for _, c := range deploys {
		assert.Equal(t, "web", c.ServiceName)
		assert.Equal(t, "2.0.0", c.Version)
		assert.Equal(t, id, c.WorkflowID)
		assert.Equal(t, id, c.CorrelationID)
		assert.Equal(t, CommandID(id, c.PhaseID, c.StepID, c.AgentID, 1), c.CommandID)
	}
}

func TestWaveFailureRollsBackAppliedServers(t *testing.T) {
	transport := &fakeTransport{failDeployOn: map[string]bool{"s3": true}}
	store := newEngineStore(t)
	eng, _ := newTestEngine(t, transport, store)

	id, err := eng.StartDeployment(context.Background(), rollingRequest([]string{"s1", "s2", "s3", "s4"}, 2))
	require.NoError(t, err)

	waitForState(t, eng, id, types.WorkflowStateRolledBack)

	st, err := eng.Status(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, st.LastError)
	assert.Equal(t, types.ErrGateFailed, st.LastError.Kind)

	rolledBack := transport.agentsFor(types.OperationRollback)
	assert.True(t, rolledBack["s1"])
	assert.True(t, rolledBack["s2"])
	assert.True(t, rolledBack["s4"])
	assert.False(t, rolledBack["s3"], "a server that never applied must not receive a rollback")
}

func TestDuplicateTerminalStatusIsIgnored(t *testing.T) {
	transport := &fakeTransport{duplicate: true}
	store := newEngineStore(t)
	eng, _ := newTestEngine(t, transport, store)

	id, err := eng.StartDeployment(context.Background(), immediateRequest([]string{"s1", "s2", "s3"}))
	require.NoError(t, err)

	waitForState(t, eng, id, types.WorkflowStateSucceeded)

	var wf types.Workflow
	found, err := store.Get(context.Background(), workflowKey(id), &wf)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, wf.Metrics.Succeeded["deploy-all"], "duplicate statuses must not double count")
}

func TestCancelStopsIssuance(t *testing.T) {
	transport := &fakeTransport{silent: true}
	eng, _ := newTestEngine(t, transport, newEngineStore(t))

	id, err := eng.StartDeployment(context.Background(), immediateRequest([]string{"s1", "s2"}))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		transport.mu.Lock()
		defer transport.mu.Unlock()
		return len(transport.commands) > 0
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, eng.Control(context.Background(), id, ControlCancel))
	waitForState(t, eng, id, types.WorkflowStateCanceled)

	assert.Empty(t, transport.commandsFor(types.OperationDeploy),
		"cancel during pre-deploy must prevent deploy commands")
}

func TestControlRejectsTerminalAndUnknownWorkflows(t *testing.T) {
	transport := &fakeTransport{}
	eng, _ := newTestEngine(t, transport, newEngineStore(t))

	err := eng.Control(context.Background(), "no-such-workflow", ControlPause)
	assert.True(t, types.IsKind(err, types.ErrValidationFailed))

	id, err := eng.StartDeployment(context.Background(), immediateRequest([]string{"s1"}))
	require.NoError(t, err)
	waitForState(t, eng, id, types.WorkflowStateSucceeded)

	err = eng.Control(context.Background(), id, ControlCancel)
	assert.True(t, types.IsKind(err, types.ErrRejected))
}

func TestLeaseExcludesSecondInstance(t *testing.T) {
	store := newEngineStore(t)

	transport1 := &fakeTransport{silent: true}
	eng1, _ := newTestEngine(t, transport1, store)

	id, err := eng1.StartDeployment(context.Background(), immediateRequest([]string{"s1"}))
	require.NoError(t, err)

	transport2 := &fakeTransport{}
	eng2, _ := newTestEngine(t, transport2, store)
	require.NoError(t, eng2.Start(context.Background()))

	// The second instance must not adopt a leased workflow, and control
	// against it is rejected.
	err = eng2.Control(context.Background(), id, ControlPause)
	assert.True(t, types.IsKind(err, types.ErrRejected))

	acquired, err := store.AcquireLease(context.Background(), leaseResource(id), "intruder", time.Second)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestCrashResumeReissuesUnderNewAttempt(t *testing.T) {
	store := newEngineStore(t)

	transport1 := &fakeTransport{silent: true}
	eng1, _ := newTestEngine(t, transport1, store)

	id, err := eng1.StartDeployment(context.Background(), immediateRequest([]string{"s1"}))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		transport1.mu.Lock()
		defer transport1.mu.Unlock()
		return len(transport1.commands) > 0
	}, 5*time.Second, 10*time.Millisecond)

	// Shut the first instance down mid-step: state and pending records
	// stay persisted, the lease is released.
	eng1.Stop()

	transport2 := &fakeTransport{}
	eng2, _ := newTestEngine(t, transport2, store)
	require.NoError(t, eng2.Start(context.Background()))

	waitForState(t, eng2, id, types.WorkflowStateSucceeded)

	var wf types.Workflow
	found, err := store.Get(context.Background(), workflowKey(id), &wf)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, wf.Attempt)

	transport1.mu.Lock()
	first := transport1.commands[0]
	transport1.mu.Unlock()

	reissued := false
	transport2.mu.Lock()
	for _, c := range transport2.commands {
		if c.PhaseID == first.PhaseID && c.StepID == first.StepID && c.AgentID == first.AgentID {
			reissued = true
			assert.NotEqual(t, first.CommandID, c.CommandID, "a new attempt must produce fresh command ids")
			assert.Equal(t, CommandID(id, c.PhaseID, c.StepID, c.AgentID, 2), c.CommandID)
		}
	}
	transport2.mu.Unlock()
	assert.True(t, reissued, "the interrupted step must be reissued")
}

func TestGlobalInflightCap(t *testing.T) {
	transport := &fakeTransport{delay: 20 * time.Millisecond}
	store := newEngineStore(t)

	broker := events.NewBroker()
	broker.Start()
	t.Cleanup(broker.Stop)

	cfg := testWorkflowConfig()
	cfg.MaxInflightGlobal = 2
	eng := New(cfg, strategy.NewSet(config.Default().Strategy), store, transport, allHealthy{}, broker, alerts.New(transport, time.Minute))
	transport.bind(eng)
	t.Cleanup(eng.Stop)

	id, err := eng.StartDeployment(context.Background(), immediateRequest([]string{"s1", "s2", "s3", "s4", "s5", "s6"}))
	require.NoError(t, err)

	waitForState(t, eng, id, types.WorkflowStateSucceeded)

	transport.mu.Lock()
	max := transport.maxConcurrent
	transport.mu.Unlock()
	assert.LessOrEqual(t, max, 2, "global in-flight cap must bound concurrent commands")
}

func TestCanaryObservationGatesPauseUntilResumed(t *testing.T) {
	transport := &fakeTransport{}
	eng, broker := newTestEngine(t, transport, newEngineStore(t))
	paused := broker.SubscribeTypes(events.EventWorkflowPaused)

	req := &types.WorkflowRequest{
		ServiceName:   "web",
		TargetVersion: "2.0.0",
		Strategy:      types.StrategyCanary,
		TargetServers: []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"},
		Config: &types.StrategyConfig{
			HealthCheck: &types.HealthCheckConfig{
				Timeout:       2 * time.Second,
				RequiredRatio: 1.0,
			},
			Canary: &types.CanaryConfig{
				CanaryPercent:   5,
				ExtendedPercent: 25,
				Observation:     2 * time.Second,
			},
		},
	}

	id, err := eng.StartDeployment(context.Background(), req)
	require.NoError(t, err)

	// One observation gate after each of the first two cohorts.
	ev := awaitEvent(t, paused)
	assert.Equal(t, id, ev.WorkflowID)
	require.NoError(t, eng.Control(context.Background(), id, ControlResume))

	awaitEvent(t, paused)
	require.NoError(t, eng.Control(context.Background(), id, ControlResume))

	waitForState(t, eng, id, types.WorkflowStateSucceeded)
}

func TestAdoptedPausedWorkflowWaitsForResume(t *testing.T) {
	store := newEngineStore(t)

	transport1 := &fakeTransport{}
	eng1, broker1 := newTestEngine(t, transport1, store)
	paused1 := broker1.SubscribeTypes(events.EventWorkflowPaused)

	req := &types.WorkflowRequest{
		ServiceName:   "web",
		TargetVersion: "2.0.0",
		Strategy:      types.StrategyCanary,
		TargetServers: []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"},
		Config: &types.StrategyConfig{
			HealthCheck: &types.HealthCheckConfig{
				Timeout:       2 * time.Second,
				RequiredRatio: 1.0,
			},
			Canary: &types.CanaryConfig{
				CanaryPercent:   5,
				ExtendedPercent: 25,
				Observation:     2 * time.Second,
			},
		},
	}

	id, err := eng1.StartDeployment(context.Background(), req)
	require.NoError(t, err)

	// Parked at the first observation gate, then the owner dies.
	awaitEvent(t, paused1)
	eng1.Stop()

	transport2 := &fakeTransport{}
	eng2, broker2 := newTestEngine(t, transport2, store)
	paused2 := broker2.SubscribeTypes(events.EventWorkflowPaused)
	require.NoError(t, eng2.Start(context.Background()))

	// The new owner re-enters the pause instead of rolling on.
	ev := awaitEvent(t, paused2)
	assert.Equal(t, id, ev.WorkflowID)
	assert.Empty(t, transport2.commandsFor(types.OperationDeploy),
		"an adopted paused workflow must not deploy before the operator resumes")

	st, err := eng2.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.WorkflowStatePaused, st.State)

	require.NoError(t, eng2.Control(context.Background(), id, ControlResume))
	awaitEvent(t, paused2)
	require.NoError(t, eng2.Control(context.Background(), id, ControlResume))
	waitForState(t, eng2, id, types.WorkflowStateSucceeded)
}

func TestAdoptedWorkflowWithoutPhasesFails(t *testing.T) {
	store := newEngineStore(t)

	// A crash between the planning persist and the phase persist leaves
	// a non-terminal record with no plan behind it.
	wf := &types.Workflow{
		ID:          "wf-planning-crash",
		ServiceName: "web",
		State:       types.WorkflowStatePlanning,
		Attempt:     1,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.Set(context.Background(), workflowKey(wf.ID), wf, 0))
	require.NoError(t, store.SAdd(context.Background(), workflowIndexKey, wf.ID))

	transport := &fakeTransport{}
	eng, _ := newTestEngine(t, transport, store)
	require.NoError(t, eng.Start(context.Background()))

	waitForState(t, eng, wf.ID, types.WorkflowStateFailed)

	st, err := eng.Status(context.Background(), wf.ID)
	require.NoError(t, err)
	require.NotNil(t, st.LastError)
	assert.Equal(t, types.ErrInternal, st.LastError.Kind)
	assert.Empty(t, transport.commandsFor(types.OperationDeploy))
}

func TestSlotStarvationDoesNotExtendStepDeadline(t *testing.T) {
	transport := &fakeTransport{}
	store := newEngineStore(t)

	broker := events.NewBroker()
	broker.Start()
	t.Cleanup(broker.Stop)

	cfg := testWorkflowConfig()
	cfg.MaxInflightGlobal = 1
	cfg.DefaultHealthCheckTimeout = 500 * time.Millisecond
	eng := New(cfg, strategy.NewSet(config.Default().Strategy), store, transport, allHealthy{}, broker, alerts.New(transport, time.Minute))
	transport.bind(eng)
	t.Cleanup(eng.Stop)

	// Saturate the global cap so the runner blocks waiting for a slot
	// with nothing in flight.
	eng.globalSlots <- struct{}{}

	id, err := eng.StartDeployment(context.Background(), immediateRequest([]string{"s1"}))
	require.NoError(t, err)

	start := time.Now()
	waitForState(t, eng, id, types.WorkflowStateFailed)
	assert.Less(t, time.Since(start), 5*time.Second,
		"the step deadline must fire while waiting for a slot")

	st, err := eng.Status(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, st.LastError)
	assert.Equal(t, types.ErrTimeout, st.LastError.Kind)
}

func TestStartDeploymentRejectsInvalidRequest(t *testing.T) {
	transport := &fakeTransport{}
	eng, _ := newTestEngine(t, transport, newEngineStore(t))

	_, err := eng.StartDeployment(context.Background(), &types.WorkflowRequest{
		ServiceName:   "web",
		TargetVersion: "2.0.0",
		Strategy:      types.StrategyRolling,
		TargetServers: []string{"s1"},
		// Rolling without its required configuration sections.
		Config: &types.StrategyConfig{},
	})
	assert.True(t, types.IsKind(err, types.ErrValidationFailed))
}

func TestFailedDeploymentEmitsCriticalAlert(t *testing.T) {
	transport := &fakeTransport{failDeployOn: map[string]bool{"s1": true, "s2": true}}
	eng, _ := newTestEngine(t, transport, newEngineStore(t))

	// All servers fail: rollback has nothing to undo, workflow lands in
	// rolled-back with the original fault preserved.
	id, err := eng.StartDeployment(context.Background(), rollingRequest([]string{"s1", "s2"}, 2))
	require.NoError(t, err)

	waitForState(t, eng, id, types.WorkflowStateRolledBack)

	require.Eventually(t, func() bool {
		transport.mu.Lock()
		defer transport.mu.Unlock()
		for _, a := range transport.alerts {
			if a.Severity == types.AlertCritical && a.Category == types.AlertCategoryDeployment {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}
