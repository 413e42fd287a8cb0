/*
Package api implements the Drover coordinator gRPC surface and its
Protocol Buffer conversions.

Two services share one server: AgentTransport, spoken by the fleet
agents (registration, heartbeats, service discovery, metric streams,
package upload), and ControlPlane, spoken by operators (deployments,
workflow control, fleet queries, synchronous service commands).

# Architecture

	┌──────────── AGENT ────────────┐   ┌──────────── CLI ────────────┐
	│  RegisterAgent / Heartbeat     │   │  StartDeployment             │
	│  ReportServices / StreamMetrics│   │  ControlWorkflow / ListAgents│
	└───────────────┬───────────────┘   └───────────────┬─────────────┘
	                │ gRPC (bearer token, TLS)           │
	┌───────────────▼────────────────────────────────────▼─────────────┐
	│                       gRPC API Server (pkg/api)                   │
	│   auth + metrics interceptors → handlers → registry / engine      │
	└──────┬──────────────────┬──────────────────┬─────────────────────┘
	       │                  │                  │
	   registry           workflow            fabric / statestore

# Authentication

Every RPC carries "authorization: Bearer <token>" metadata. Tokens are
HMAC-signed by the coordinator (pkg/security); the interceptor verifies
the signature, checks the revocation set in the state store, and places
the claims on the request context. Running without a configured auth
secret disables the check entirely.

# Synchronous commands

ExecuteServiceCommand and RunServiceCommand publish onto the priority
queue and block until the agent's CommandResult comes back on the
workflow queue, or the 30s command timeout fires. Correlation is by
command id through the resultWaiter.

# Heartbeat piggyback

When the broker is down the workflow engine parks deployment commands
in per-agent queues in the state store. Heartbeat responses drain up to
16 of them, so commands still reach agents on a degraded fabric.

# Health endpoints

HealthServer exposes /health (liveness), /ready (state store, fabric,
fleet summary) and /metrics (Prometheus) on a separate HTTP listener.
*/
package api
