/*
Package agent implements the per-server daemon of the Drover fleet.

An agent registers with the coordinator over gRPC, then runs three
reporting loops (heartbeat, service discovery, host metrics) and one
command executor fed by the message fabric.

# Architecture

	┌────────────────────── AGENT ─────────────────────────┐
	│                                                        │
	│  heartbeat ──┐                                         │
	│  discovery ──┼── gRPC ──────────────► coordinator API  │
	│  metrics  ───┘                                         │
	│                                                        │
	│  executor ◄── AMQP agent queue ◄───── workflow engine  │
	│     │                                                  │
	│     ├── releaseStore   (staged package versions)       │
	│     ├── ServiceManager (systemctl)                     │
	│     └── health checks  (HTTP / TCP / exec)             │
	│                                                        │
	│  status updates ── AMQP ───────────► status consumer   │
	└────────────────────────────────────────────────────────┘

# Command execution

Commands are idempotent by CommandID: delivery is at-least-once, so
the executor records terminal outcomes and replays them for
duplicates instead of re-running. Deploys stage the package into the
release store, verify its digest, swap the current release symlink,
and confirm the service came back up; every transition is published
as a StatusUpdate on the workflow's status key.

Admin commands (start/stop/restart/status) arrive on the priority
binding and answer synchronously: the result is published on the
command's correlation key for the coordinator's result waiter.

# Degraded fabric

When the broker is down the coordinator parks commands in a per-agent
fallback queue; the heartbeat response carries up to 16 of them and
the executor runs them exactly as if they had arrived over AMQP.
*/
package agent
