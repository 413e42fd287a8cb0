/*
Package metrics defines the Prometheus instrumentation for the Drover
coordinator.

All metrics are registered against the default registry at package
init and exposed on the coordinator's /metrics endpoint alongside the
standard Go runtime collectors.

# Metric groups

	┌──────────────────── /metrics ────────────────────┐
	│                                                    │
	│  fleet      drover_agents_total{status}            │
	│             drover_services_total                  │
	│             drover_heartbeats_received_total       │
	│                                                    │
	│  workflow   drover_workflows_total{state}          │
	│             drover_commands_issued_total           │
	│             drover_commands_in_flight              │
	│             drover_workflow_duration_seconds       │
	│                                                    │
	│  fabric     drover_fabric_published_total{prefix}  │
	│             drover_fabric_consumed_total           │
	│             drover_fabric_reconnects_total         │
	│                                                    │
	│  transport  drover_rpc_requests_total              │
	│             drover_rpc_request_duration_seconds    │
	│                                                    │
	│  alerts     drover_alerts_emitted_total{severity}  │
	└────────────────────────────────────────────────────┘

Gauges are owned by one writer each: the fleet registry maintains the
fleet gauges on every mutation, the workflow engine refreshes the
per-state workflow gauge after scanning the state store. Counters are
incremented at the point the counted thing happens.

# Usage

	metrics.CommandsIssued.Inc()
	metrics.WorkflowDuration.WithLabelValues("succeeded").Observe(elapsed.Seconds())

	mux.Handle("/metrics", metrics.Handler())
*/
package metrics
