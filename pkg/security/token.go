package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims identifies the bearer of an agent token
type Claims struct {
	AgentID   string    `json:"agentId,omitempty"`
	Hostname  string    `json:"hostname"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the claims carry a lapsed expiry
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// TokenAuthority mints and verifies HMAC-signed bearer tokens. The
// coordinator and every agent share one secret; there is no third
// party to consult on the hot path.
type TokenAuthority struct {
	secret []byte
}

// NewTokenAuthority creates a token authority from the shared secret
func NewTokenAuthority(secret string) (*TokenAuthority, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret cannot be empty")
	}
	return &TokenAuthority{secret: []byte(secret)}, nil
}

// Mint signs claims into a compact token string
func (a *TokenAuthority) Mint(claims *Claims) (string, error) {
	if claims.Hostname == "" {
		return "", fmt.Errorf("claims must carry a hostname")
	}
	if claims.IssuedAt.IsZero() {
		claims.IssuedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + a.sign(encoded), nil
}

// Verify checks a token's signature and expiry and returns its claims
func (a *TokenAuthority) Verify(token string) (*Claims, error) {
	encoded, sig, found := strings.Cut(token, ".")
	if !found {
		return nil, fmt.Errorf("malformed token")
	}

	if !hmac.Equal([]byte(a.sign(encoded)), []byte(sig)) {
		return nil, fmt.Errorf("token signature mismatch")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("malformed token payload")
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("malformed token claims")
	}
	if claims.Expired(time.Now()) {
		return nil, fmt.Errorf("token expired at %s", claims.ExpiresAt.Format(time.RFC3339))
	}
	return &claims, nil
}

func (a *TokenAuthority) sign(payload string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// TokenID returns a stable short identifier for a token, used as the
// revocation key so raw tokens never land in the state store
func TokenID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
