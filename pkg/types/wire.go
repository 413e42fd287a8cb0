package types

import (
	"time"
)

// Operation is the action a DeploymentCommand asks an agent to perform
type Operation string

const (
	OperationDeploy        Operation = "deploy"
	OperationRollback      Operation = "rollback"
	OperationStop          Operation = "stop"
	OperationStart         Operation = "start"
	OperationRestart       Operation = "restart"
	OperationHealthCheck   Operation = "health-check"
	OperationSwitchTraffic Operation = "switch-traffic"
)

// DeploymentCommand is the wire message that drives per-server execution.
// CommandID is the idempotency key: an agent must ignore a duplicate
// CommandID once it has completed.
type DeploymentCommand struct {
	CommandID     string            `json:"commandId"`
	WorkflowID    string            `json:"workflowId"`
	PhaseID       string            `json:"phaseId"`
	StepID        string            `json:"stepId"`
	AgentID       string            `json:"agentId"`
	ServiceName   string            `json:"serviceName"`
	Version       string            `json:"version"`
	Strategy      Strategy          `json:"strategy"`
	Operation     Operation         `json:"operation"`
	Priority      int               `json:"priority"`
	Package       PackageRef        `json:"packageRef"`
	Parameters    map[string]string `json:"parameters,omitempty"`
	IssuedAt      time.Time         `json:"issuedAt"`
	Deadline      time.Time         `json:"deadline"`
	CorrelationID string            `json:"correlationId"`
}

// StatusPhase is the reported progress phase of a command on an agent
type StatusPhase string

const (
	StatusAccepted  StatusPhase = "accepted"
	StatusRunning   StatusPhase = "running"
	StatusProgress  StatusPhase = "progress"
	StatusApplied   StatusPhase = "applied"
	StatusSucceeded StatusPhase = "succeeded"
	StatusFailed    StatusPhase = "failed"
	StatusRejected  StatusPhase = "rejected"
)

// Terminal reports whether a status phase closes the command
func (p StatusPhase) Terminal() bool {
	switch p {
	case StatusSucceeded, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// StatusUpdate is the wire message agents publish back per command
type StatusUpdate struct {
	CommandID  string      `json:"commandId"`
	WorkflowID string      `json:"workflowId"`
	AgentID    string      `json:"agentId"`
	Timestamp  time.Time   `json:"timestamp"`
	Phase      StatusPhase `json:"phase"`
	Progress   int         `json:"progress,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Details    string      `json:"details,omitempty"`
}

// AlertSeverity ranks alerts for routing
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// AlertCategory groups alerts by origin
type AlertCategory string

const (
	AlertCategoryDeployment AlertCategory = "deployment"
	AlertCategoryFleet      AlertCategory = "fleet"
)

// Alert is a severity-routed notification emitted by the engine and
// the fleet registry. Downstream notification handlers consume these
// from the alert.* queues.
type Alert struct {
	ID        string            `json:"id"`
	Severity  AlertSeverity     `json:"severity"`
	Category  AlertCategory     `json:"category"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Servers   []string          `json:"servers,omitempty"`
	Service   string            `json:"service,omitempty"`
	Recovery  bool              `json:"recovery,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ServiceCommand is a synchronous admin command against one service on
// one agent (start/stop/restart/status)
type ServiceCommand struct {
	CommandID   string    `json:"commandId"`
	AgentID     string    `json:"agentId"`
	ServiceName string    `json:"serviceName"`
	Command     string    `json:"command"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// CommandResult is the synchronous outcome of an admin service command
type CommandResult struct {
	CommandID  string
	Success    bool
	Message    string
	ExitCode   int
	ExecutedAt time.Time
}
