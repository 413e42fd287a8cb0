// Package workflow executes planned deployment workflows across the
// fleet with crash recovery, health gates and automatic rollback.
//
// # Architecture
//
// The Engine owns a set of runners, one goroutine per active workflow.
// Each runner walks its workflow's phases in order, fanning commands
// out to agents through the message fabric and folding status updates
// back into per-server state. Everything flows through channels; the
// runner goroutine is the only writer of its workflow.
//
//	 StartDeployment ──► plan ──► persist ──► lease ──► spawn runner
//	                                                        │
//	            ┌─────────── statusCh ◄── StatusConsumer ◄──┼── status queue
//	   runner ──┤
//	            └─────────── controlCh ◄── Control (pause/resume/cancel)
//
// # Durability
//
// Workflow state lives in the state store and is written before any
// externally visible action: a command is recorded as pending before
// it is published, a phase is marked running before its first command
// goes out. A coordinator crash therefore loses no intent. On startup
// the engine scans for non-terminal workflows whose lease has lapsed,
// adopts them under an incremented attempt number, and resumes from
// the persisted phase index.
//
// # Command Identity
//
// Command ids are derived, not generated: the same workflow, phase,
// step, agent and attempt always produce the same id. Republishing
// after a crash is a duplicate the agent already knows how to ignore;
// bumping the attempt yields fresh ids for work that must actually be
// redone. A resumed engine first waits a bounded replay window for the
// broker to redeliver outstanding statuses before reissuing anything.
//
// # Gates and Rollback
//
// After each step the runner evaluates the phase's health gate: the
// fraction of servers that succeeded must reach the required ratio,
// and wave phases additionally bound the failure percentage. A breached
// gate on a phase marked for rollback triggers exactly one rollback,
// targeting only the servers that reached Applied or later. Observation
// gates (canary) park the workflow in Paused until an operator resumes
// or cancels it.
//
// # Ownership
//
// A workflow runs under exactly one engine instance at a time, enforced
// by a state-store lease renewed on a timer. A runner that cannot renew
// halts immediately without touching state; the next instance to win
// the lease continues from the store. In-flight commands across all of
// one instance's workflows are capped by a global slot pool.
package workflow
