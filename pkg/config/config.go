package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Broker holds message fabric connection and topology settings
type Broker struct {
	HostName         string        `yaml:"hostName"`
	Port             int           `yaml:"port"`
	UserName         string        `yaml:"userName"`
	Password         string        `yaml:"password"`
	VHost            string        `yaml:"vhost"`
	TLS              bool          `yaml:"tls"`
	Heartbeat        time.Duration `yaml:"heartbeat"`
	RecoveryInterval time.Duration `yaml:"recoveryInterval"`
	AutoRecover      bool          `yaml:"autoRecover"`
	Exchange         string        `yaml:"exchange"`
	DLX              string        `yaml:"dlx"`
	MessageTTL       time.Duration `yaml:"messageTTL"`
	MaxRetries       int           `yaml:"maxRetries"`
	ClusterHosts     []string      `yaml:"clusterHosts"`
	MaxConnPool      int           `yaml:"maxConnPool"`
	MinConnPool      int           `yaml:"minConnPool"`
	Prefetch         int           `yaml:"prefetch"`
	BatchSize        int           `yaml:"batchSize"`
	ConsumerThreads  int           `yaml:"consumerThreads"`
	// MaxMessagesPerSecond caps outbound publishes with a token bucket;
	// zero disables the limit.
	MaxMessagesPerSecond    int `yaml:"maxMessagesPerSecond"`
	MaxConcurrentOperations int `yaml:"maxConcurrentOperations"`
}

// URL renders the AMQP connection URL
func (b Broker) URL() string {
	scheme := "amqp"
	if b.TLS {
		scheme = "amqps"
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, b.UserName, b.Password, b.HostName, b.Port, b.VHost)
}

// Workflow holds workflow engine tuning
type Workflow struct {
	HeartbeatTimeout          time.Duration `yaml:"heartbeatTimeout"`
	LeaseTTL                  time.Duration `yaml:"leaseTTL"`
	LeaseRenew                time.Duration `yaml:"leaseRenew"`
	MaxParallelismDefault     int           `yaml:"maxParallelismDefault"`
	DefaultHealthCheckTimeout time.Duration `yaml:"defaultHealthCheckTimeout"`
	MaxInflightGlobal         int           `yaml:"maxInflightGlobal"`
	// ReissueWindow bounds how long a resumed engine waits for replayed
	// status before reissuing a pending command under a new attempt.
	ReissueWindow time.Duration `yaml:"reissueWindow"`
}

// Strategy holds default deployment strategy parameters, overridable
// per workflow request
type Strategy struct {
	WaveStrategy        string        `yaml:"waveStrategy"`
	WaveSize            int           `yaml:"waveSize"`
	WavePercentage      float64       `yaml:"wavePercentage"`
	WaveInterval        time.Duration `yaml:"waveInterval"`
	ParallelWithinWave  bool          `yaml:"parallelWithinWave"`
	MaxParallelism      int           `yaml:"maxParallelism"`
	DelayBetweenServers time.Duration `yaml:"delayBetweenServers"`
	MaxFailureThreshold float64       `yaml:"maxFailureThresholdPct"`
	HealthCheckTimeout  time.Duration `yaml:"healthCheckTimeout"`
	MaxRetries          int           `yaml:"maxRetries"`
}

// StateStore holds Redis connection settings
type StateStore struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"poolSize"`
}

// Transport holds the coordinator gRPC listener settings
type Transport struct {
	ListenAddr string `yaml:"listenAddr"`
	TLSCert    string `yaml:"tlsCert"`
	TLSKey     string `yaml:"tlsKey"`
	ClientCA   string `yaml:"clientCA"`
	// AuthSecret signs and verifies bearer tokens.
	AuthSecret string `yaml:"authSecret"`
	// RegistrationGrace treats NotRegistered as transient for this long
	// after coordinator startup.
	RegistrationGrace time.Duration `yaml:"registrationGrace"`
}

// Alerts holds alert bus tuning
type Alerts struct {
	SuppressionWindow time.Duration `yaml:"suppressionWindow"`
}

// Config is the root coordinator configuration
type Config struct {
	DataDir     string     `yaml:"dataDir"`
	MetricsAddr string     `yaml:"metricsAddr"`
	Broker      Broker     `yaml:"broker"`
	Workflow    Workflow   `yaml:"workflow"`
	Strategy    Strategy   `yaml:"strategy"`
	StateStore  StateStore `yaml:"stateStore"`
	Transport   Transport  `yaml:"transport"`
	Alerts      Alerts     `yaml:"alerts"`
}

// Default returns the documented defaults for every recognized option
func Default() *Config {
	return &Config{
		DataDir:     "/var/lib/drover",
		MetricsAddr: ":9420",
		Broker: Broker{
			HostName:                "localhost",
			Port:                    5672,
			UserName:                "guest",
			Password:                "guest",
			VHost:                   "/",
			Heartbeat:               10 * time.Second,
			RecoveryInterval:        5 * time.Second,
			AutoRecover:             true,
			Exchange:                "drover",
			DLX:                     "drover.dlx",
			MessageTTL:              30 * time.Minute,
			MaxRetries:              5,
			MaxConnPool:             4,
			MinConnPool:             1,
			Prefetch:                32,
			BatchSize:               100,
			ConsumerThreads:         4,
			MaxMessagesPerSecond:    500,
			MaxConcurrentOperations: 256,
		},
		Workflow: Workflow{
			HeartbeatTimeout:          90 * time.Second,
			LeaseTTL:                  30 * time.Second,
			LeaseRenew:                10 * time.Second,
			MaxParallelismDefault:     8,
			DefaultHealthCheckTimeout: 60 * time.Second,
			MaxInflightGlobal:         128,
			ReissueWindow:             30 * time.Second,
		},
		Strategy: Strategy{
			WaveStrategy:        "fixed-size",
			WaveSize:            4,
			WavePercentage:      25,
			WaveInterval:        30 * time.Second,
			ParallelWithinWave:  true,
			MaxParallelism:      4,
			DelayBetweenServers: 5 * time.Second,
			MaxFailureThreshold: 25,
			HealthCheckTimeout:  60 * time.Second,
			MaxRetries:          2,
		},
		StateStore: StateStore{
			Address:  "localhost:6379",
			PoolSize: 16,
		},
		Transport: Transport{
			ListenAddr:        ":9410",
			RegistrationGrace: 2 * time.Minute,
		},
		Alerts: Alerts{
			SuppressionWindow: 5 * time.Minute,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks numeric ranges and required fields
func (c *Config) Validate() error {
	if c.Broker.Port <= 0 || c.Broker.Port > 65535 {
		return fmt.Errorf("broker.port out of range: %d", c.Broker.Port)
	}
	if c.Broker.MinConnPool < 1 || c.Broker.MaxConnPool < c.Broker.MinConnPool {
		return fmt.Errorf("broker connection pool bounds invalid: min=%d max=%d",
			c.Broker.MinConnPool, c.Broker.MaxConnPool)
	}
	if c.Broker.Prefetch < 1 {
		return fmt.Errorf("broker.prefetch must be >= 1")
	}
	if c.Broker.Exchange == "" || c.Broker.DLX == "" {
		return fmt.Errorf("broker.exchange and broker.dlx are required")
	}
	if c.Workflow.LeaseTTL <= c.Workflow.LeaseRenew {
		return fmt.Errorf("workflow.leaseTTL must exceed workflow.leaseRenew")
	}
	if c.Workflow.MaxParallelismDefault < 1 {
		return fmt.Errorf("workflow.maxParallelismDefault must be >= 1")
	}
	if c.Workflow.MaxInflightGlobal < 1 {
		return fmt.Errorf("workflow.maxInflightGlobal must be >= 1")
	}
	if c.Strategy.WaveSize < 1 {
		return fmt.Errorf("strategy.waveSize must be >= 1")
	}
	if c.Strategy.WavePercentage <= 0 || c.Strategy.WavePercentage > 100 {
		return fmt.Errorf("strategy.wavePercentage must be in (0,100]")
	}
	if c.Strategy.MaxFailureThreshold < 0 || c.Strategy.MaxFailureThreshold > 100 {
		return fmt.Errorf("strategy.maxFailureThresholdPct must be in [0,100]")
	}
	return nil
}

// AgentConfig is the root agent daemon configuration
type AgentConfig struct {
	CoordinatorAddr string        `yaml:"coordinatorAddr"`
	Hostname        string        `yaml:"hostname"`
	Environment     string        `yaml:"environment"`
	Location        string        `yaml:"location"`
	DataDir         string        `yaml:"dataDir"`
	AuthToken       string        `yaml:"authToken"`
	TLSCA           string        `yaml:"tlsCA"`
	TLSSkipVerify   bool          `yaml:"tlsSkipVerify"`
	CommandTimeout  time.Duration `yaml:"commandTimeout"`
	Broker          Broker        `yaml:"broker"`
}

// DefaultAgent returns agent defaults
func DefaultAgent() *AgentConfig {
	return &AgentConfig{
		CoordinatorAddr: "localhost:9410",
		DataDir:         "/var/lib/drover-agent",
		CommandTimeout:  2 * time.Minute,
		Broker:          Default().Broker,
	}
}

// LoadAgent reads an agent YAML config file over the defaults
func LoadAgent(path string) (*AgentConfig, error) {
	cfg := DefaultAgent()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
