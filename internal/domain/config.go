package domain

import (
	"fmt"
	"time"
)

// Reference defaults for the remediation loop.
const (
	DefaultMaxAttempts   = 3
	DefaultMaxFiles      = 100
	DefaultConcurrency   = 1
	DefaultOracleTimeout = 120 * time.Second
	DefaultOracleModel   = "gpt-4o-mini"
	DefaultLintCommand   = "tscanner check {path} --format json"
)

// OracleConfig configures the code-generation backend.
type OracleConfig struct {
	BaseURL        string `yaml:"base_url"        json:"base_url,omitempty"`
	Model          string `yaml:"model"           json:"model,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
}

// Timeout returns the per-call oracle timeout.
func (o OracleConfig) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return DefaultOracleTimeout
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// RunConfig holds project-level configuration loaded from .mend.yaml.
type RunConfig struct {
	Oracle            OracleConfig `yaml:"oracle"             json:"oracle,omitempty"`
	MaxAttempts       int          `yaml:"max_attempts"       json:"max_attempts,omitempty"`
	MaxFiles          int          `yaml:"max_files"          json:"max_files,omitempty"`
	Concurrency       int          `yaml:"concurrency"        json:"concurrency,omitempty"`
	LintCommand       string       `yaml:"lint_command"       json:"lint_command,omitempty"`
	ExcludeDirs       []string     `yaml:"exclude_dirs"       json:"exclude_dirs,omitempty"`
	ExcludeExtensions []string     `yaml:"exclude_extensions" json:"exclude_extensions,omitempty"`
}

// DefaultRunConfig returns the reference configuration.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Oracle: OracleConfig{
			Model:          DefaultOracleModel,
			TimeoutSeconds: int(DefaultOracleTimeout / time.Second),
		},
		MaxAttempts: DefaultMaxAttempts,
		MaxFiles:    DefaultMaxFiles,
		Concurrency: DefaultConcurrency,
		LintCommand: DefaultLintCommand,
	}
}

// Validate catches nonsensical values before a batch starts mutating files.
func (c RunConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.MaxFiles < 1 {
		return fmt.Errorf("max_files must be >= 1, got %d", c.MaxFiles)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.Oracle.TimeoutSeconds < 0 {
		return fmt.Errorf("oracle.timeout_seconds must not be negative, got %d", c.Oracle.TimeoutSeconds)
	}
	return nil
}
