package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig represents the server configuration loaded from YAML.
//
// The security policy is deliberately not part of this file; it lives in its
// own JSON document (see internal/domain/security) so that restriction sets
// can be shared between deployments independently of server tuning.
type ServerConfig struct {
	Log      LogConfig      `yaml:"log,omitempty"`
	Foundry  FoundryConfig  `yaml:"foundry,omitempty"`
	Security SecurityConfig `yaml:"security,omitempty"`
	Sessions SessionsConfig `yaml:"sessions,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // "json" or "console"
}

// FoundryConfig controls how the Foundry toolchain is located and described.
type FoundryConfig struct {
	// BinPath overrides binary discovery when set.
	BinPath string `yaml:"bin_path,omitempty"`
	// SchemaPath overrides the embedded tool schemas when set.
	SchemaPath string `yaml:"schema_path,omitempty"`
	// ContextPath points at a repo-local description overlay. The default
	// picks up a context.json in the working directory when one exists.
	ContextPath string `yaml:"context_path,omitempty"`
}

// SecurityConfig controls policy loading and enforcement.
type SecurityConfig struct {
	// PolicyPath overrides the default ~/.foundry-mcp-config.json location.
	PolicyPath string `yaml:"policy_path,omitempty"`
	// ArgumentGuard enables execution-time validation of supplied arguments
	// against the forbidden flag set. When disabled, forbidden flags are only
	// hidden from the advertised catalog.
	ArgumentGuard *bool `yaml:"argument_guard,omitempty"`
}

// SessionsConfig tunes the session manager.
type SessionsConfig struct {
	// EvalTimeout bounds a single chisel eval round trip.
	EvalTimeout time.Duration `yaml:"eval_timeout,omitempty"`
	// AnvilWarmup is how long to wait after spawning anvil before reporting
	// the session as started.
	AnvilWarmup time.Duration `yaml:"anvil_warmup,omitempty"`
}

// DefaultServerConfig returns the built-in defaults.
func DefaultServerConfig() *ServerConfig {
	guard := true
	return &ServerConfig{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Foundry: FoundryConfig{
			ContextPath: "context.json",
		},
		Security: SecurityConfig{
			ArgumentGuard: &guard,
		},
		Sessions: SessionsConfig{
			EvalTimeout: 10 * time.Second,
			AnvilWarmup: time.Second,
		},
	}
}

// DefaultPolicyPath returns the conventional security policy location.
func DefaultPolicyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".foundry-mcp-config.json")
}

// LoadServerConfig loads the server configuration from a YAML file, applying
// defaults for any omitted field.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseServerConfig(data)
}

// ParseServerConfig parses server configuration from YAML bytes.
func ParseServerConfig(data []byte) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log format %q is not supported (json, console)", c.Log.Format)
	}

	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("log level %q is not supported", c.Log.Level)
	}

	if c.Sessions.EvalTimeout < 0 {
		return fmt.Errorf("sessions.eval_timeout must not be negative")
	}
	if c.Sessions.AnvilWarmup < 0 {
		return fmt.Errorf("sessions.anvil_warmup must not be negative")
	}

	return nil
}

// ArgumentGuardEnabled reports whether the execution-time argument guard is on.
func (c *ServerConfig) ArgumentGuardEnabled() bool {
	if c.Security.ArgumentGuard == nil {
		return true
	}
	return *c.Security.ArgumentGuard
}

// ToYAML converts the server configuration to YAML bytes.
func (c *ServerConfig) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
