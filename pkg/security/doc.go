// Package security provides authentication primitives for the
// coordinator/agent transport.
//
// # Tokens
//
// Agents authenticate with compact HMAC-SHA256 bearer tokens minted
// from a shared secret: a base64 JSON claims payload followed by its
// signature. Verification is local and allocation-cheap; no callout is
// needed per RPC. Revocation is handled above this package by keying
// TokenID(token) into the state store, so raw tokens are never stored.
//
// # TLS
//
// ServerCredentials and ClientCredentials load operator-provisioned
// certificate files into gRPC transport credentials, with optional
// mutual TLS when a client CA bundle is configured. Certificate
// issuance is out of scope: this package consumes PEM files, it does
// not run a CA.
package security
