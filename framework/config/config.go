package config

import (
	"os"
	"strconv"
	"time"
)

// Default timeouts used throughout the harness
const (
	// DefaultRolloutTimeout is the default timeout for waiting for a platform rollout
	DefaultRolloutTimeout = 300 * time.Second

	// DefaultRolloutPollInterval is the default interval for polling rollout status
	DefaultRolloutPollInterval = 5 * time.Second

	// DefaultSettleTimeout is the default timeout for waiting for the platform
	// to accept connections after an upgrade step
	DefaultSettleTimeout = 120 * time.Second

	// DefaultSettlePollInterval is the default interval for probing platform readiness
	DefaultSettlePollInterval = 2 * time.Second

	// DefaultNamespaceTimeout is the default timeout for namespace operations
	DefaultNamespaceTimeout = 120 * time.Second

	// DefaultStatementTimeout is the default timeout for a single SQL statement
	DefaultStatementTimeout = 60 * time.Second

	// DefaultMaxConcurrentJoins is the default number of pending handles
	// joined in parallel within one upgrade step
	DefaultMaxConcurrentJoins = 8
)

// Environment variable names for configuration overrides
const (
	EnvRolloutTimeout     = "UPGRADE_TEST_ROLLOUT_TIMEOUT"
	EnvSettleTimeout      = "UPGRADE_TEST_SETTLE_TIMEOUT"
	EnvStatementTimeout   = "UPGRADE_TEST_STATEMENT_TIMEOUT"
	EnvMaxConcurrentJoins = "UPGRADE_TEST_MAX_CONCURRENT_JOINS"
)

// Config holds harness configuration with optional overrides
type Config struct {
	// Timeouts
	RolloutTimeout      time.Duration
	RolloutPollInterval time.Duration
	SettleTimeout       time.Duration
	SettlePollInterval  time.Duration
	NamespaceTimeout    time.Duration
	StatementTimeout    time.Duration

	// Concurrency
	MaxConcurrentJoins int
}

// Default returns a Config with all default values
func Default() *Config {
	return &Config{
		RolloutTimeout:      DefaultRolloutTimeout,
		RolloutPollInterval: DefaultRolloutPollInterval,
		SettleTimeout:       DefaultSettleTimeout,
		SettlePollInterval:  DefaultSettlePollInterval,
		NamespaceTimeout:    DefaultNamespaceTimeout,
		StatementTimeout:    DefaultStatementTimeout,
		MaxConcurrentJoins:  DefaultMaxConcurrentJoins,
	}
}

// FromEnv returns a Config with values from environment variables, falling back to defaults
func FromEnv() *Config {
	cfg := Default()

	if v := os.Getenv(EnvRolloutTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RolloutTimeout = d
		}
	}

	if v := os.Getenv(EnvSettleTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SettleTimeout = d
		}
	}

	if v := os.Getenv(EnvStatementTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StatementTimeout = d
		}
	}

	if v := os.Getenv(EnvMaxConcurrentJoins); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrentJoins = n
		}
	}

	return cfg
}

// WithRolloutTimeout returns a copy with updated rollout timeout
func (c *Config) WithRolloutTimeout(d time.Duration) *Config {
	cp := *c
	cp.RolloutTimeout = d
	return &cp
}

// WithSettleTimeout returns a copy with updated settle timeout
func (c *Config) WithSettleTimeout(d time.Duration) *Config {
	cp := *c
	cp.SettleTimeout = d
	return &cp
}

// WithStatementTimeout returns a copy with updated statement timeout
func (c *Config) WithStatementTimeout(d time.Duration) *Config {
	cp := *c
	cp.StatementTimeout = d
	return &cp
}

// WithMaxConcurrentJoins returns a copy with updated join concurrency
func (c *Config) WithMaxConcurrentJoins(n int) *Config {
	cp := *c
	cp.MaxConcurrentJoins = n
	return &cp
}
