/*
Package log provides structured logging for Drover using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging with
component-specific loggers, configurable log levels, and helper functions for
common logging patterns. All logs include timestamps and support filtering by
severity level for production debugging.

# Usage

Initialize once at process start:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

Component loggers:

	logger := log.WithComponent("workflow-engine")
	logger.Info().Str("workflow_id", wf.ID).Msg("workflow started")

Domain child loggers:

	log.WithWorkflowID(wf.ID).Warn().Msg("health gate breached")
	log.WithAgentID(agentID).Debug().Msg("heartbeat received")

# Log Levels

  - debug: verbose diagnostics (per-message fabric traffic, lease renewals)
  - info: lifecycle events (workflow transitions, agent registration)
  - warn: degraded conditions (gate breaches, reconnects, suppressed alerts)
  - error: failures requiring attention (rollback, dead-lettered messages)

# Output Formats

JSON output for production (machine-parseable, one object per line) and
console output for development (human-readable, colorized).

# Integration Points

Every Drover package obtains its logger through WithComponent. The two
binaries (drover, drover-agent) call Init from their cobra root command.
*/
package log
