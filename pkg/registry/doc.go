// Package registry maintains the coordinator's live view of the fleet:
// which agents exist, whether they are alive, and what services each
// one runs.
//
// The registry is a projection over transport traffic. Registrations
// upsert agents idempotently by hostname, heartbeats refresh liveness,
// and discovery snapshots replace each agent's service list. Status is
// derived, never stored: an agent whose last heartbeat is older than
// the configured timeout is Disconnected, with an explicit error mark
// overriding until the next heartbeat. A background sweeper applies the
// derivation and publishes AgentDisconnected events.
//
// Service snapshots are full, not incremental. A service absent from
// two consecutive snapshots is flipped to inactive; a single missed
// snapshot is tolerated as discovery jitter.
//
// All accessors return copies. The registry can be rebuilt from
// replayed transport traffic at any time, so it is never persisted.
package registry
