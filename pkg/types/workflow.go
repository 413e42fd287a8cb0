package types

import (
	"time"
)

// Strategy identifies how a deployment is staged across the fleet
type Strategy string

const (
	StrategyRolling   Strategy = "rolling"
	StrategyBlueGreen Strategy = "blue-green"
	StrategyCanary    Strategy = "canary"
	StrategyImmediate Strategy = "immediate"
)

// WorkflowState represents the lifecycle state of a deployment workflow
type WorkflowState string

const (
	WorkflowStatePending     WorkflowState = "pending"
	WorkflowStatePlanning    WorkflowState = "planning"
	WorkflowStateRunning     WorkflowState = "running"
	WorkflowStatePaused      WorkflowState = "paused"
	WorkflowStateSucceeded   WorkflowState = "succeeded"
	WorkflowStateFailed      WorkflowState = "failed"
	WorkflowStateRollingBack WorkflowState = "rolling-back"
	WorkflowStateRolledBack  WorkflowState = "rolled-back"
	WorkflowStateCanceled    WorkflowState = "canceled"
)

// Terminal reports whether a workflow state is a sink
func (s WorkflowState) Terminal() bool {
	switch s {
	case WorkflowStateSucceeded, WorkflowStateFailed, WorkflowStateRolledBack, WorkflowStateCanceled:
		return true
	}
	return false
}

// PackageRef is a content-addressed reference to a deployment package
type PackageRef struct {
	Path   string
	SHA256 string
}

// Workflow represents a deployment plan instance with identity, strategy
// and a state machine. Phases reference each other by index only so the
// whole structure serializes to JSON without cycles.
type Workflow struct {
	ID                string
	ServiceName       string
	TargetVersion     string
	Strategy          Strategy
	Package           PackageRef
	Initiator         string
	Priority          int
	CreatedAt         time.Time
	State             WorkflowState
	Phases            []*Phase
	CurrentPhaseIndex int
	Metrics           WorkflowMetrics
	Deadline          time.Time
	LastError         *Fault
	// RollbackIssued guards against cascading rollback: rollback is
	// triggered at most once per workflow.
	RollbackIssued bool
	// Attempt increments each time an engine instance adopts the
	// workflow after a crash; command ids are derived from it.
	Attempt   int
	UpdatedAt time.Time
}

// WorkflowMetrics tracks per-server outcomes for a workflow
type WorkflowMetrics struct {
	Succeeded map[string]int
	Failed    map[string]int
}

// PhaseKind classifies a phase within the canonical plan shape
type PhaseKind string

const (
	PhaseKindPreDeploy  PhaseKind = "pre-deploy"
	PhaseKindWave       PhaseKind = "wave"
	PhaseKindPostDeploy PhaseKind = "post-deploy"
	PhaseKindCleanup    PhaseKind = "cleanup"
	PhaseKindRollback   PhaseKind = "rollback"
)

// PhaseState represents the execution state of a phase
type PhaseState string

const (
	PhaseStatePending   PhaseState = "pending"
	PhaseStateRunning   PhaseState = "running"
	PhaseStateSucceeded PhaseState = "succeeded"
	PhaseStateFailed    PhaseState = "failed"
	PhaseStateSkipped   PhaseState = "skipped"
)

// HealthGate is the post-phase condition that must hold to proceed
type HealthGate struct {
	Timeout       time.Duration
	RequiredRatio float64
	// ManualResume pauses the workflow after the gate passes, pending an
	// external Resume (canary observation gates).
	ManualResume bool
}

// Phase is a named segment of a workflow
type Phase struct {
	ID                string
	Name              string
	Kind              PhaseKind
	TargetServers     []string
	Steps             []*Step
	RollbackOnFailure bool
	MaxFailurePercent float64
	Gate              HealthGate
	State             PhaseState
	StartedAt         time.Time
	FinishedAt        time.Time
	// Serial phases dispatch one server at a time with DelayBetween
	// between dispatches; parallel phases fan out up to MaxParallelism.
	Serial         bool
	DelayBetween   time.Duration
	MaxParallelism int
	// PostDelay holds the workflow after this phase completes, before
	// the next phase starts (inter-wave interval).
	PostDelay time.Duration
}

// StepType classifies a unit of work within a phase
type StepType string

const (
	StepTypeValidation  StepType = "validation"
	StepTypeCommand     StepType = "command"
	StepTypeHealthCheck StepType = "health-check"
	StepTypeWait        StepType = "wait"
	StepTypeScript      StepType = "script"
)

// StepState represents the derived state of a step
type StepState string

const (
	StepStatePending   StepState = "pending"
	StepStateRunning   StepState = "running"
	StepStateSucceeded StepState = "succeeded"
	StepStateFailed    StepState = "failed"
	StepStateSkipped   StepState = "skipped"
)

// ServerStepStatus is the per-server progress of a step
type ServerStepStatus string

const (
	ServerStepIssued    ServerStepStatus = "issued"
	ServerStepAccepted  ServerStepStatus = "accepted"
	ServerStepRunning   ServerStepStatus = "running"
	ServerStepApplied   ServerStepStatus = "applied"
	ServerStepSucceeded ServerStepStatus = "succeeded"
	ServerStepFailed    ServerStepStatus = "failed"
	ServerStepRejected  ServerStepStatus = "rejected"
	ServerStepTimedOut  ServerStepStatus = "timed-out"
)

// TerminalServerStep reports whether a per-server status is final
func TerminalServerStep(s ServerStepStatus) bool {
	switch s {
	case ServerStepSucceeded, ServerStepFailed, ServerStepRejected, ServerStepTimedOut:
		return true
	}
	return false
}

// Step is a unit of work within a phase. ServerStatus is keyed by agent ID.
type Step struct {
	ID           string
	Name         string
	Type         StepType
	Operation    Operation
	Parameters   map[string]string
	Critical     bool
	State        StepState
	ServerStatus map[string]ServerStepStatus
	Deadline     time.Time
}

// WorkflowRequest is the input to the strategy planner
type WorkflowRequest struct {
	ServiceName   string
	TargetVersion string
	Strategy      Strategy
	TargetServers []string
	Package       PackageRef
	Initiator     string
	Priority      int
	Config        *StrategyConfig
}

// WaveStrategy selects how rolling waves are partitioned
type WaveStrategy string

const (
	WaveStrategyFixedSize  WaveStrategy = "fixed-size"
	WaveStrategyPercentage WaveStrategy = "percentage"
)

// WaveConfig controls wave partitioning for the rolling strategy
type WaveConfig struct {
	Strategy       WaveStrategy  `yaml:"strategy"`
	WaveSize       int           `yaml:"waveSize"`
	WavePercentage float64       `yaml:"wavePercentage"`
	WaveInterval   time.Duration `yaml:"waveInterval"`
}

// RollingConfig controls in-wave dispatch for the rolling strategy
type RollingConfig struct {
	ParallelWithinWave  bool          `yaml:"parallelWithinWave"`
	MaxParallelism      int           `yaml:"maxParallelism"`
	DelayBetweenServers time.Duration `yaml:"delayBetweenServers"`
	MaxFailurePercent   float64       `yaml:"maxFailurePercent"`
}

// HealthCheckConfig is shared health-gate tuning across strategies
type HealthCheckConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	RequiredRatio float64       `yaml:"requiredRatio"`
	MaxRetries    int           `yaml:"maxRetries"`
}

// CanaryConfig tunes canary cohort sizes
type CanaryConfig struct {
	CanaryPercent   float64       `yaml:"canaryPercent"`
	ExtendedPercent float64       `yaml:"extendedPercent"`
	Observation     time.Duration `yaml:"observation"`
}

// StrategyConfig bundles the per-strategy configuration sections.
// Rolling requires Wave, Rolling and HealthCheck; the other strategies
// require HealthCheck only.
type StrategyConfig struct {
	Wave        *WaveConfig        `yaml:"wave"`
	Rolling     *RollingConfig     `yaml:"rolling"`
	HealthCheck *HealthCheckConfig `yaml:"healthCheck"`
	Canary      *CanaryConfig      `yaml:"canary"`
}

// Lease is a short-lived exclusive ownership token over a resource
type Lease struct {
	Resource  string
	OwnerID   string
	ExpiresAt time.Time
}

// WorkflowStatus is the stable externally visible view of a workflow
type WorkflowStatus struct {
	ID           string
	State        WorkflowState
	CurrentPhase string
	PhaseIndex   int
	Servers      map[string]ServerStepStatus
	LastError    *Fault
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Deadline     time.Time
}
