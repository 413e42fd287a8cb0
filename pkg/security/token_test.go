package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	authority, err := NewTokenAuthority("test-secret")
	require.NoError(t, err)

	token, err := authority.Mint(&Claims{
		AgentID:  "agent-1",
		Hostname: "web-01",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := authority.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.AgentID)
	assert.Equal(t, "web-01", claims.Hostname)
	assert.False(t, claims.IssuedAt.IsZero())
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	authority, err := NewTokenAuthority("test-secret")
	require.NoError(t, err)

	token, err := authority.Mint(&Claims{Hostname: "web-01"})
	require.NoError(t, err)

	// Flip a character in the payload.
	tampered := "A" + token[1:]
	_, err = authority.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	minter, err := NewTokenAuthority("secret-a")
	require.NoError(t, err)
	verifier, err := NewTokenAuthority("secret-b")
	require.NoError(t, err)

	token, err := minter.Mint(&Claims{Hostname: "web-01"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorContains(t, err, "signature mismatch")
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	authority, err := NewTokenAuthority("test-secret")
	require.NoError(t, err)

	token, err := authority.Mint(&Claims{
		Hostname:  "web-01",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = authority.Verify(token)
	assert.ErrorContains(t, err, "expired")
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	authority, err := NewTokenAuthority("test-secret")
	require.NoError(t, err)

	for _, token := range []string{"", "no-dot", "a.b.c.d", "!!!.###"} {
		_, err := authority.Verify(token)
		assert.Error(t, err, "token %q must not verify", token)
	}
}

func TestMintRequiresHostname(t *testing.T) {
	authority, err := NewTokenAuthority("test-secret")
	require.NoError(t, err)

	_, err = authority.Mint(&Claims{})
	assert.Error(t, err)
}

func TestNewTokenAuthorityRequiresSecret(t *testing.T) {
	_, err := NewTokenAuthority("")
	assert.Error(t, err)
}

func TestTokenIDStableAndOpaque(t *testing.T) {
	authority, err := NewTokenAuthority("test-secret")
	require.NoError(t, err)

	token, err := authority.Mint(&Claims{Hostname: "web-01"})
	require.NoError(t, err)

	id := TokenID(token)
	assert.Equal(t, id, TokenID(token))
	assert.Len(t, id, 32)
	assert.False(t, strings.Contains(token, id))
}
