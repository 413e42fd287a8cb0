package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fleet metrics
	AgentsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drover_agents_total",
			Help: "Total number of agents by status",
		},
		[]string{"status"},
	)

	ServicesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drover_services_total",
			Help: "Total number of tracked services",
		},
	)

	HeartbeatsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drover_heartbeats_received_total",
			Help: "Total number of agent heartbeats received",
		},
	)

	// Workflow metrics
	WorkflowsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drover_workflows_total",
			Help: "Number of workflows by state",
		},
		[]string{"state"},
	)

	CommandsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drover_commands_issued_total",
			Help: "Total number of deployment commands published",
		},
	)

	CommandsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drover_commands_in_flight",
			Help: "Deployment commands awaiting a terminal status",
		},
	)

	RollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drover_rollbacks_total",
			Help: "Total number of rollback waves issued",
		},
	)

	WorkflowDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drover_workflow_duration_seconds",
			Help:    "Wall-clock duration of workflows by terminal state",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"state"},
	)

	// Fabric metrics
	MessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drover_fabric_published_total",
			Help: "Messages accepted by the broker by routing-key prefix",
		},
		[]string{"prefix"},
	)

	MessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drover_fabric_consumed_total",
			Help: "Messages consumed by queue and verdict",
		},
		[]string{"queue", "verdict"},
	)

	PublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drover_fabric_publish_failures_total",
			Help: "Publishes that failed or were not confirmed",
		},
	)

	BrokerReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drover_fabric_reconnects_total",
			Help: "Broker connection recoveries",
		},
	)

	// Transport metrics
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drover_rpc_requests_total",
			Help: "Total number of RPC requests by method and status",
		},
		[]string{"method", "status"},
	)

	RPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drover_rpc_request_duration_seconds",
			Help:    "RPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Alert metrics
	AlertsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drover_alerts_emitted_total",
			Help: "Alerts published by severity",
		},
		[]string{"severity"},
	)

	AlertsSuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drover_alerts_suppressed_total",
			Help: "Alerts dropped inside the suppression window",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(AgentsTotal)
	prometheus.MustRegister(ServicesTotal)
	prometheus.MustRegister(HeartbeatsReceived)
	prometheus.MustRegister(WorkflowsTotal)
	prometheus.MustRegister(CommandsIssued)
	prometheus.MustRegister(CommandsInFlight)
	prometheus.MustRegister(RollbacksTotal)
	prometheus.MustRegister(WorkflowDuration)
	prometheus.MustRegister(MessagesPublished)
	prometheus.MustRegister(MessagesConsumed)
	prometheus.MustRegister(PublishFailures)
	prometheus.MustRegister(BrokerReconnects)
	prometheus.MustRegister(RPCRequestsTotal)
	prometheus.MustRegister(RPCRequestDuration)
	prometheus.MustRegister(AlertsEmitted)
	prometheus.MustRegister(AlertsSuppressed)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
