package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/alerts"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/statestore"
	"github.com/droverhq/drover/pkg/strategy"
	"github.com/droverhq/drover/pkg/types"
	"github.com/droverhq/drover/pkg/workflow"
)

// deployStream is an in-memory stand-in for the DeployService stream:
// it serves queued chunks and records every progress frame.
type deployStream struct {
	grpc.ServerStream
	ctx    context.Context
	chunks []*proto.DeploymentChunk
	sent   []*proto.DeploymentProgress
}

func (s *deployStream) Context() context.Context { return s.ctx }

func (s *deployStream) Recv() (*proto.DeploymentChunk, error) {
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *deployStream) Send(p *proto.DeploymentProgress) error {
	s.sent = append(s.sent, p)
	return nil
}

func (s *deployStream) statuses() []string {
	out := make([]string, 0, len(s.sent))
	for _, p := range s.sent {
		out = append(out, p.Status)
	}
	return out
}

// ackingTransport plays the agent side for workflows started from an
// upload stream: every published command succeeds.
type ackingTransport struct {
	mu  sync.Mutex
	eng *workflow.Engine
}

func (a *ackingTransport) bind(eng *workflow.Engine) {
	a.mu.Lock()
	a.eng = eng
	a.mu.Unlock()
}

func (a *ackingTransport) Publish(ctx context.Context, routingKey string, payload interface{}, props *fabric.Props) error {
	cmd, ok := payload.(*types.DeploymentCommand)
	if !ok {
		return nil
	}
	a.mu.Lock()
	eng := a.eng
	a.mu.Unlock()
	go func() {
		for _, phase := range []types.StatusPhase{
			types.StatusAccepted, types.StatusRunning, types.StatusApplied, types.StatusSucceeded,
		} {
			eng.HandleStatus(&types.StatusUpdate{
				CommandID:  cmd.CommandID,
				WorkflowID: cmd.WorkflowID,
				AgentID:    cmd.AgentID,
				Timestamp:  time.Now().UTC(),
				Phase:      phase,
			})
		}
	}()
	return nil
}

type healthyFleet struct{}

func (healthyFleet) IsHealthy(string) bool { return true }

func uploadTestServer(t *testing.T) *Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := statestore.NewWithClient(client)

	broker := events.NewBroker()
	broker.Start()
	t.Cleanup(broker.Stop)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	transport := &ackingTransport{}
	eng := workflow.New(cfg.Workflow, strategy.NewSet(cfg.Strategy), store, transport,
		healthyFleet{}, broker, alerts.New(transport, time.Minute))
	transport.bind(eng)
	t.Cleanup(eng.Stop)

	return &Server{cfg: cfg, engine: eng, logger: zerolog.Nop()}
}

func packageChunk(payload []byte) *proto.DeploymentChunk {
	sum := sha256.Sum256(payload)
	return &proto.DeploymentChunk{
		ServiceName:   "web",
		Version:       "2.0.0",
		Offset:        0,
		TotalSize:     int64(len(payload)),
		Data:          payload,
		PackageSha256: hex.EncodeToString(sum[:]),
	}
}

func TestDeployServiceStoresVerifiedPackage(t *testing.T) {
	s := uploadTestServer(t)
	stream := &deployStream{
		ctx:    context.Background(),
		chunks: []*proto.DeploymentChunk{packageChunk([]byte("artifact-bytes"))},
	}

	require.NoError(t, s.DeployService(stream))

	assert.Equal(t, []string{"received", "verified"}, stream.statuses())
	_, err := os.Stat(filepath.Join(s.cfg.DataDir, "packages", "web-2.0.0.pkg"))
	assert.NoError(t, err)
}

func TestDeployServiceStreamsRolloutMilestones(t *testing.T) {
	s := uploadTestServer(t)

	chunk := packageChunk([]byte("artifact-bytes"))
	chunk.TargetServers = []string{"s1", "s2"}
	chunk.Strategy = string(types.StrategyImmediate)
	stream := &deployStream{
		ctx:    context.Background(),
		chunks: []*proto.DeploymentChunk{chunk},
	}

	require.NoError(t, s.DeployService(stream))

	assert.Equal(t,
		[]string{"received", "verified", "applied", "started", "health_ok"},
		stream.statuses())

	// Milestone frames name the workflow they track.
	last := stream.sent[len(stream.sent)-1]
	require.NotEmpty(t, last.Message)
	st, err := s.engine.Status(context.Background(), last.Message)
	require.NoError(t, err)
	assert.Equal(t, types.WorkflowStateSucceeded, st.State)
}

func TestDeployServiceReportsRolloutFailure(t *testing.T) {
	s := uploadTestServer(t)

	chunk := packageChunk([]byte("artifact-bytes"))
	chunk.TargetServers = []string{"s1"}
	chunk.Strategy = "yolo"
	stream := &deployStream{
		ctx:    context.Background(),
		chunks: []*proto.DeploymentChunk{chunk},
	}

	err := s.DeployService(stream)
	require.Error(t, err)

	got := stream.statuses()
	require.NotEmpty(t, got)
	assert.Equal(t, "failed", got[len(got)-1])
}
