/*
Package health provides the health check primitives used by Drover
agents to verify managed services.

Three checker types cover the common cases: HTTP, TCP, and Exec. The
workflow engine gates phase progression on aggregated check results;
the agent runs the individual checks against its local services and
reports outcomes as status updates.

# Architecture

	┌──────────────────────────────────────────────┐
	│              Checker Interface               │
	│  • Check(ctx) Result                         │
	│  • Type() CheckType                          │
	└────────┬─────────────────────────────────────┘
	         │
	    ┌────┴───────┬───────────┐
	    ▼            ▼           ▼
	┌────────┐  ┌─────────┐  ┌────────┐
	│  HTTP  │  │   TCP   │  │  Exec  │
	│Checker │  │ Checker │  │Checker │
	└────────┘  └─────────┘  └────────┘
	     │           │            │
	  GET /health  Connect     Run command
	               :port       on host

# Check Types

HTTP checks request a URL and accept any status inside a configurable
range (200-399 by default). Use them for services that expose a health
endpoint.

TCP checks only verify that a port accepts connections. Use them for
databases, brokers, and anything without an HTTP surface.

Exec checks run a command on the host and treat exit code 0 as
healthy. Use them for service-specific probes (pg_isready, custom
scripts).

# Probing

Status accumulates consecutive successes and failures. A service is
marked unhealthy only after Retries consecutive failures; StartPeriod
gives slow starters a grace window during which failures do not count.
Probe drives a checker through that state machine until it succeeds
once or spends the failure budget:

	checker := health.NewHTTPChecker("http://127.0.0.1:8080/health")
	result := health.Probe(ctx, checker, health.DefaultConfig())
	if !result.Healthy {
		// gate failed
	}
*/
package health
