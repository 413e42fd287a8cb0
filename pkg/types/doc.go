/*
Package types defines the core data structures used throughout Drover.

This package contains all fundamental types that represent Drover's domain model:
agents and the services discovered on them, deployment workflows with their
phases and steps, the wire messages exchanged over the message fabric, and the
typed error kinds surfaced by the workflow engine.

# Core Types

Fleet:
  - Agent: remote process on a managed server, with identity, capacity and health
  - AgentStatus: connected, disconnected, error, unknown
  - Service: a service instance discovered on an agent, keyed by (agent, name)

Deployment:
  - Workflow: a deployment plan instance with strategy and state machine
  - Phase: pre-deploy, wave, post-deploy, cleanup segments of a workflow
  - Step: validation, command, health-check, wait or script unit inside a phase
  - Lease: short-lived exclusive ownership token over a workflow

Wire:
  - DeploymentCommand: the command message published to an agent
  - StatusUpdate: the per-command status message published back
  - Alert: severity-routed notification emitted by the engine

Errors:
  - ErrorKind: typed failure classification (transport, rejection, timeout, ...)
  - Fault: an ErrorKind plus human-readable message, persisted in workflow state

# State Machines

Workflows:

	Pending → Planning → Running ⇄ Paused
	Running → {Succeeded, Failed, Canceled}
	Failed  → RollingBack → RolledBack

Terminal states are sinks. Phase indexes only move forward.

# Design Patterns

All enums are typed string constants. Optional configuration uses pointers.
A workflow owns its phases; phases refer back by index, never by pointer, so the
whole workflow serializes to JSON without cycles.

# Integration Points

  - pkg/strategy produces []Phase from a WorkflowRequest
  - pkg/workflow drives the Workflow state machine
  - pkg/fabric carries DeploymentCommand and StatusUpdate
  - pkg/statestore persists Workflow as JSON
  - pkg/registry maintains Agent and Service projections
*/
package types
