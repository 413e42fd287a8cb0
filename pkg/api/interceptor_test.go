package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/droverhq/drover/pkg/security"
)

func authTestServer(t *testing.T) (*Server, *security.TokenAuthority) {
	t.Helper()
	authority, err := security.NewTokenAuthority("test-secret")
	require.NoError(t, err)
	return &Server{
		authority: authority,
		store:     healthTestStore(t),
	}, authority
}

func withBearer(token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	s, authority := authTestServer(t)

	token, err := authority.Mint(&security.Claims{
		AgentID:   "agent-7",
		Hostname:  "web-07",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	ctx, err := s.authenticate(withBearer(token))
	require.NoError(t, err)
	assert.Equal(t, "agent-7", initiatorFrom(ctx))
}

func TestAuthenticateRejections(t *testing.T) {
	s, authority := authTestServer(t)

	expired, err := authority.Mint(&security.Claims{
		Hostname:  "web-07",
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "no metadata", ctx: context.Background()},
		{name: "no authorization", ctx: metadata.NewIncomingContext(context.Background(), metadata.MD{})},
		{name: "not a bearer token", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic dXNlcg=="))},
		{name: "garbage token", ctx: withBearer("not.a.token")},
		{name: "expired token", ctx: withBearer(expired)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.authenticate(tt.ctx)
			require.Error(t, err)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	s, authority := authTestServer(t)

	token, err := authority.Mint(&security.Claims{
		Hostname:  "web-07",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, s.store.SAdd(context.Background(), revokedTokensKey, security.TokenID(token)))

	_, err = s.authenticate(withBearer(token))
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Contains(t, err.Error(), "revoked")
}

func TestAuthenticateDisabledWithoutAuthority(t *testing.T) {
	s := &Server{}

	ctx, err := s.authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anonymous", initiatorFrom(ctx))
}

func TestInitiatorFallsBackToHostname(t *testing.T) {
	s, authority := authTestServer(t)

	token, err := authority.Mint(&security.Claims{
		Hostname:  "ops-laptop",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	ctx, err := s.authenticate(withBearer(token))
	require.NoError(t, err)
	assert.Equal(t, "ops-laptop", initiatorFrom(ctx))
}
