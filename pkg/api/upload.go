package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/droverhq/drover/api/proto"
	"github.com/droverhq/drover/pkg/types"
)

// DeployService ingests a deployment package as a chunk stream into the
// coordinator package directory, verifying offsets, advertised size and
// the SHA-256 digest. A first chunk that names target servers also
// starts the rollout: the stream stays open past "verified" and reports
// applied, started and health_ok as the workflow reaches each
// milestone. Without targets the stored package is referenced by later
// workflows through its path and digest.
func (s *Server) DeployService(stream proto.AgentTransport_DeployServiceServer) error {
	var (
		file     *os.File
		tmpPath  string
		written  int64
		total    int64
		digest   string
		service  string
		version  string
		targets  []string
		strat    string
		overlays map[string]string
		hasher   = sha256.New()
		received bool
	)
	defer func() {
		if file != nil {
			file.Close()
			os.Remove(tmpPath)
		}
	}()

	progress := func(st, msg string, pct int32) error {
		return stream.Send(&proto.DeploymentProgress{
			Status:          st,
			Message:         msg,
			ProgressPercent: pct,
			TimestampMs:     time.Now().UnixMilli(),
		})
	}

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if !received {
			if chunk.ServiceName == "" || chunk.Version == "" {
				return status.Error(codes.InvalidArgument, "serviceName and version are required")
			}
			if chunk.TotalSize <= 0 {
				return status.Error(codes.InvalidArgument, "totalSize must be positive")
			}
			if chunk.PackageSha256 == "" {
				return status.Error(codes.InvalidArgument, "packageSha256 is required")
			}
			service, version, total, digest = chunk.ServiceName, chunk.Version, chunk.TotalSize, strings.ToLower(chunk.PackageSha256)
			targets, strat, overlays = chunk.TargetServers, chunk.Strategy, chunk.Configuration

			dir := filepath.Join(s.cfg.DataDir, "packages")
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return status.Errorf(codes.Internal, "failed to create package dir: %v", err)
			}
			tmpPath = filepath.Join(dir, fmt.Sprintf(".%s-%s.partial", service, version))
			file, err = os.Create(tmpPath)
			if err != nil {
				return status.Errorf(codes.Internal, "failed to create package file: %v", err)
			}
			received = true
		}

		// Chunks must arrive in order with contiguous offsets.
		if chunk.Offset != written {
			return status.Errorf(codes.InvalidArgument, "chunk offset %d does not match received bytes %d", chunk.Offset, written)
		}
		if chunk.TotalSize != total {
			return status.Errorf(codes.InvalidArgument, "totalSize changed mid-stream")
		}

		if _, err := file.Write(chunk.Data); err != nil {
			return status.Errorf(codes.Internal, "failed to write package: %v", err)
		}
		hasher.Write(chunk.Data)
		written += int64(len(chunk.Data))

		if written > total {
			return status.Errorf(codes.InvalidArgument, "received %d bytes, advertised %d", written, total)
		}
		if err := progress("received", "", int32(written*100/total)); err != nil {
			return err
		}
	}

	if !received {
		return status.Error(codes.InvalidArgument, "empty deployment stream")
	}
	if written != total {
		return status.Errorf(codes.InvalidArgument, "incomplete upload: %d of %d bytes", written, total)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	if sum != digest {
		_ = progress("failed", "checksum mismatch", 100)
		return status.Errorf(codes.InvalidArgument, "package digest %s does not match advertised %s", sum, digest)
	}

	finalPath := filepath.Join(s.cfg.DataDir, "packages", fmt.Sprintf("%s-%s.pkg", service, version))
	if err := file.Close(); err != nil {
		return status.Errorf(codes.Internal, "failed to finalize package: %v", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return status.Errorf(codes.Internal, "failed to store package: %v", err)
	}
	file = nil

	s.logger.Info().
		Str("service", service).
		Str("version", version).
		Str("sha256", sum).
		Int64("bytes", written).
		Msg("Deployment package stored")
	if err := progress("verified", finalPath, 100); err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}

	strategyName := types.Strategy(strat)
	if strategyName == "" {
		strategyName = types.StrategyImmediate
	}
	strategyCfg, err := s.buildStrategyConfig(strategyName, overlays)
	if err != nil {
		_ = progress("failed", err.Error(), 100)
		return status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := s.engine.StartDeployment(stream.Context(), &types.WorkflowRequest{
		ServiceName:   service,
		TargetVersion: version,
		Strategy:      strategyName,
		TargetServers: targets,
		Package:       types.PackageRef{Path: finalPath, SHA256: sum},
		Initiator:     initiatorFrom(stream.Context()),
		Config:        strategyCfg,
	})
	if err != nil {
		_ = progress("failed", err.Error(), 100)
		return faultToStatus(err)
	}
	return s.relayRollout(stream, id, targets, progress)
}

// relayRollout watches a workflow started from an upload stream and
// emits the applied, started and health_ok milestones in order. A
// terminal failure surfaces as a single "failed" frame.
func (s *Server) relayRollout(stream proto.AgentTransport_DeployServiceServer, workflowID string, targets []string, progress func(st, msg string, pct int32) error) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	milestones := []string{"applied", "started", "health_ok"}
	next := 0
	emitThrough := func(n int) error {
		for ; next < n; next++ {
			if err := progress(milestones[next], workflowID, 100); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case <-ticker.C:
		}

		st, err := s.engine.Status(stream.Context(), workflowID)
		if err != nil {
			return faultToStatus(err)
		}

		switch {
		case st.State == types.WorkflowStateSucceeded:
			return emitThrough(len(milestones))
		case st.State.Terminal():
			msg := string(st.State)
			if st.LastError != nil {
				msg = st.LastError.Message
			}
			_ = progress("failed", msg, 100)
			return nil
		}

		applied, started := rolloutReached(st.Servers, targets)
		if started {
			if err := emitThrough(2); err != nil {
				return err
			}
		} else if applied {
			if err := emitThrough(1); err != nil {
				return err
			}
		}
	}
}

// rolloutReached reports whether every target server has applied the
// package, and whether every one is running the new version.
func rolloutReached(statuses map[string]types.ServerStepStatus, targets []string) (applied, started bool) {
	applied, started = true, true
	for _, target := range targets {
		switch statuses[target] {
		case types.ServerStepApplied:
			started = false
		case types.ServerStepSucceeded:
		default:
			return false, false
		}
	}
	return applied, started
}
