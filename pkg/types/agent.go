package types

import (
	"time"
)

// Agent represents a remote agent process on a managed server
type Agent struct {
	ID            string
	Hostname      string
	IPAddress     string
	OSType        string
	OSVersion     string
	AgentVersion  string
	CPUCores      int
	TotalMemoryMB int64
	Location      string
	Environment   string
	Tags          map[string]string
	Status        AgentStatus
	LastHeartbeat time.Time
	RegisteredAt  time.Time
	Services      []*Service
}

// AgentStatus represents the current state of an agent
type AgentStatus string

const (
	AgentStatusConnected    AgentStatus = "connected"
	AgentStatusDisconnected AgentStatus = "disconnected"
	AgentStatusError        AgentStatus = "error"
	AgentStatusUnknown      AgentStatus = "unknown"
)

// AgentMetrics carries the resource sample piggybacked on a heartbeat
type AgentMetrics struct {
	CPUPercent   float64
	MemoryMB     int64
	ServiceCount int
	Timestamp    time.Time
}

// Service represents a service instance discovered on an agent.
// Services are unique per (AgentID, Name).
type Service struct {
	AgentID          string
	Name             string
	DisplayName      string
	Version          string
	Status           ServiceStatus
	ProcessID        int
	Port             int
	ExecutablePath   string
	WorkingDirectory string
	ConfigFilePath   string
	StartupType      string
	ServiceAccount   string
	LastStartTime    time.Time
	IsActive         bool
	// MissedReports counts consecutive discovery snapshots the service was
	// absent from. Two misses flip IsActive to false.
	MissedReports int
}

// ServiceStatus represents the state of a service on an agent
type ServiceStatus string

const (
	ServiceStatusRunning  ServiceStatus = "running"
	ServiceStatusStopped  ServiceStatus = "stopped"
	ServiceStatusStarting ServiceStatus = "starting"
	ServiceStatusStopping ServiceStatus = "stopping"
	ServiceStatusError    ServiceStatus = "error"
	ServiceStatusUnknown  ServiceStatus = "unknown"
)

// AgentSettings is returned to an agent on registration and controls
// its reporting cadence.
type AgentSettings struct {
	HeartbeatInterval time.Duration
	DiscoveryInterval time.Duration
	MetricsInterval   time.Duration
}

// AgentFilter narrows List queries against the fleet registry
type AgentFilter struct {
	Status      AgentStatus
	Environment string
	Hostnames   []string
}

// Metric is a single measurement streamed from an agent
type Metric struct {
	AgentID    string
	ServiceID  string
	MetricType string
	MetricName string
	Value      float64
	Unit       string
	Timestamp  time.Time
	Tags       map[string]string
}
