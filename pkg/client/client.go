package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/security"
)

// uploadChunkSize is the DeployService stream chunk size
const uploadChunkSize = 256 * 1024

// Client wraps the coordinator gRPC services for CLI usage
type Client struct {
	conn    *grpc.ClientConn
	control proto.ControlPlaneClient
	agents  proto.AgentTransportClient
	timeout time.Duration
}

// Options configures the coordinator connection
type Options struct {
	// Addr is the coordinator listen address (host:port)
	Addr string

	// Token is the bearer token attached to every RPC
	Token string

	// TLSCA is the CA bundle used to verify the coordinator; empty
	// with SkipVerify false means plaintext.
	TLSCA      string
	SkipVerify bool

	// Timeout bounds each unary call (default 10s)
	Timeout time.Duration
}

// New connects to the coordinator
func New(opts Options) (*Client, error) {
	creds, err := security.ClientCredentials(opts.TLSCA, opts.SkipVerify)
	if err != nil {
		return nil, err
	}

	dialOpts := make([]grpc.DialOption, 0, 2)
	if creds != nil {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if opts.Token != "" {
		dialOpts = append(dialOpts, grpc.WithPerRPCCredentials(tokenCreds{token: opts.Token}))
	}

	conn, err := grpc.NewClient(opts.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial coordinator: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		conn:    conn,
		control: proto.NewControlPlaneClient(conn),
		agents:  proto.NewAgentTransportClient(conn),
		timeout: timeout,
	}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Deploy starts a deployment workflow and returns its id
func (c *Client) Deploy(ctx context.Context, req *proto.DeploymentRequest) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.control.StartDeployment(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.WorkflowId, nil
}

// Workflow fetches one workflow's status
func (c *Client) Workflow(ctx context.Context, id string) (*proto.WorkflowStatus, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	return c.control.GetWorkflow(ctx, &proto.WorkflowQuery{WorkflowId: id})
}

// Workflows lists workflows, optionally filtered by state
func (c *Client) Workflows(ctx context.Context, state string) ([]*proto.WorkflowStatus, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.control.ListWorkflows(ctx, &proto.WorkflowListRequest{State: state})
	if err != nil {
		return nil, err
	}
	return resp.Workflows, nil
}

// Control applies pause, resume or cancel to a workflow and returns
// the state after the action was accepted
func (c *Client) Control(ctx context.Context, id, action string) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.control.ControlWorkflow(ctx, &proto.WorkflowControl{
		WorkflowId: id,
		Action:     action,
	})
	if err != nil {
		return "", err
	}
	return resp.State, nil
}

// Agents lists the fleet
func (c *Client) Agents(ctx context.Context, statusFilter, environment string) ([]*proto.AgentSummary, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.control.ListAgents(ctx, &proto.AgentListRequest{
		StatusFilter: statusFilter,
		Environment:  environment,
	})
	if err != nil {
		return nil, err
	}
	return resp.Agents, nil
}

// RunServiceCommand executes a synchronous admin command on one agent.
// The call blocks until the agent answers, so the context should allow
// more than the unary default.
func (c *Client) RunServiceCommand(ctx context.Context, agentID, service, command string) (*proto.CommandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	return c.control.RunServiceCommand(ctx, &proto.ServiceCommand{
		ServerId:    agentID,
		ServiceName: service,
		Command:     command,
	})
}

// Rollback dispatches a service rollback across the fleet
func (c *Client) Rollback(ctx context.Context, service, targetVersion string) (*proto.RollbackResult, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	return c.agents.RollbackService(ctx, &proto.RollbackRequest{
		ServiceName:   service,
		TargetVersion: targetVersion,
	})
}

// UploadPackage streams a package file to the coordinator in chunks
// and returns the stored path reported back after digest verification.
func (c *Client) UploadPackage(ctx context.Context, service, version, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open package: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	total := info.Size()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash package: %w", err)
	}
	digest := hex.EncodeToString(hasher.Sum(nil))
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	stream, err := c.agents.DeployService(ctx)
	if err != nil {
		return "", err
	}

	buf := make([]byte, uploadChunkSize)
	var offset int64
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := &proto.DeploymentChunk{
				ServiceName:   service,
				Version:       version,
				Offset:        offset,
				TotalSize:     total,
				Data:          buf[:n],
				PackageSha256: digest,
			}
			if err := stream.Send(chunk); err != nil {
				return "", fmt.Errorf("failed to send chunk at %d: %w", offset, err)
			}
			offset += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	if err := stream.CloseSend(); err != nil {
		return "", err
	}

	// Drain progress until the verified (or failed) frame.
	for {
		progress, err := stream.Recv()
		if err != nil {
			return "", fmt.Errorf("upload failed: %w", err)
		}
		switch progress.Status {
		case "verified":
			return progress.Message, nil
		case "failed":
			return "", fmt.Errorf("upload rejected: %s", progress.Message)
		}
	}
}

// tokenCreds attaches the operator token to every RPC
type tokenCreds struct {
	token string
}

func (c tokenCreds) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + c.token}, nil
}

func (c tokenCreds) RequireTransportSecurity() bool {
	return false
}
