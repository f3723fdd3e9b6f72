// Package commands implements the CLI subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/bolt"
	"github.com/urfave/cli/v2"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/foundry"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/observability"
	"github.com/foundrykit/foundry-mcp/pkg/config"
)

// loadConfig reads the server config named by --config, falling back to
// defaults when no file is present.
func loadConfig(c *cli.Context) (*config.ServerConfig, error) {
	path := c.String("config")
	if path == "" {
		return config.DefaultServerConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		// The default location is allowed to be absent.
		if !c.IsSet("config") {
			return config.DefaultServerConfig(), nil
		}
		return nil, fmt.Errorf("config file %s not found", path)
	}
	return config.LoadServerConfig(path)
}

// setupLogger builds the logger, honoring a --log-level override.
func setupLogger(c *cli.Context, cfg *config.ServerConfig) *bolt.Logger {
	level := cfg.Log.Level
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	return observability.NewServerLogger(observability.LogConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	}, c.App.Name, c.App.Version)
}

// loadRegistry builds the tool registry from the configured schema file or
// the embedded definitions.
func loadRegistry(cfg *config.ServerConfig) (*toolspec.Registry, error) {
	var (
		file *toolspec.SchemaFile
		err  error
	)
	if cfg.Foundry.SchemaPath != "" {
		file, err = toolspec.LoadSchema(cfg.Foundry.SchemaPath)
	} else {
		file, err = toolspec.DefaultSchema()
	}
	if err != nil {
		return nil, err
	}
	return toolspec.NewRegistry(file), nil
}

// loadPolicy loads the security policy from the configured path or the
// conventional location.
func loadPolicy(cfg *config.ServerConfig) (*security.Policy, error) {
	path := cfg.Security.PolicyPath
	if path == "" {
		path = config.DefaultPolicyPath()
	}
	return security.LoadPolicyOrDefault(path)
}

// buildLocator honors a pinned bin directory, probing well-known locations
// otherwise.
func buildLocator(cfg *config.ServerConfig) foundry.Locator {
	if cfg.Foundry.BinPath != "" {
		return foundry.FixedLocator{Dir: cfg.Foundry.BinPath}
	}
	return foundry.NewLocator()
}
