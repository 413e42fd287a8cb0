package api

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/droverhq/drover/pkg/metrics"
	"github.com/droverhq/drover/pkg/security"
)

type claimsKey struct{}

// revokedTokensKey is the state-store set of revoked token ids.
const revokedTokensKey = "revoked-tokens"

// authUnary validates the bearer token on every unary RPC and attaches
// its claims to the context. With no authority configured, everything
// passes (development mode).
func (s *Server) authUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, err := s.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// authStream is the streaming counterpart of authUnary
func (s *Server) authStream() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := s.authenticate(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
	}
}

func (s *Server) authenticate(ctx context.Context) (context.Context, error) {
	if s.authority == nil {
		return ctx, nil
	}

	token, err := bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := s.authority.Verify(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	revoked, err := s.store.SContains(ctx, revokedTokensKey, security.TokenID(token))
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "revocation check failed: %v", err)
	}
	if revoked {
		return nil, status.Error(codes.Unauthenticated, "token has been revoked")
	}

	return context.WithValue(ctx, claimsKey{}, claims), nil
}

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "missing authorization")
	}
	token, found := strings.CutPrefix(values[0], "Bearer ")
	if !found {
		return "", status.Error(codes.Unauthenticated, "authorization must be a bearer token")
	}
	return token, nil
}

// initiatorFrom names the caller for workflow audit fields
func initiatorFrom(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey{}).(*security.Claims)
	if !ok || claims == nil {
		return "anonymous"
	}
	if claims.AgentID != "" {
		return claims.AgentID
	}
	return claims.Hostname
}

// metricsUnary records request counts and latency per method
func (s *Server) metricsUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observeRPC(info.FullMethod, start, err)
		return resp, err
	}
}

// metricsStream records stream counts and total duration per method
func (s *Server) metricsStream() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		observeRPC(info.FullMethod, start, err)
		return err
	}
}

func observeRPC(fullMethod string, start time.Time, err error) {
	method := fullMethod
	if idx := strings.LastIndex(fullMethod, "/"); idx >= 0 {
		method = fullMethod[idx+1:]
	}
	metrics.RPCRequestsTotal.WithLabelValues(method, status.Code(err).String()).Inc()
	metrics.RPCRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// wrappedStream overrides the stream context with the authenticated one
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
