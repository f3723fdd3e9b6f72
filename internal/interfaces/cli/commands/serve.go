package commands

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/chains"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/foundry"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/mcp"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/policy"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/sessions"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/tokens"
)

// ServeCommand returns the serve command, the default when the binary is
// launched by an MCP client.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the MCP protocol on stdio",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := setupLogger(c, cfg)

	registry, err := loadRegistry(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load tool schemas")
		return err
	}

	pol, err := loadPolicy(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load security policy")
		return err
	}
	catalog := security.NewCatalog(registry, pol)

	logger.Info().
		Int("defined", registry.Len()).
		Int("exposed", catalog.Len()).
		Int("forbidden_commands", len(pol.ForbiddenCommands)).
		Int("forbidden_flags", len(pol.ForbiddenFlags)).
		Msg("tool catalog built")

	locator := buildLocator(cfg)
	if path, err := locator.Locate("forge"); err != nil {
		// Startup proceeds so the data tools stay usable, but every
		// command execution will fail with the same hint.
		logger.Warn().Err(err).Msg("foundry toolchain not detected")
	} else {
		logger.Info().Str("forge", path).Msg("foundry toolchain detected")
	}

	var guard *policy.Guard
	if cfg.ArgumentGuardEnabled() {
		guard, err = policy.NewGuard(c.Context, pol, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to prepare argument guard")
			return err
		}
	}

	manager := sessions.NewManager(locator, logger, sessions.Config{
		EvalTimeout: cfg.Sessions.EvalTimeout,
		AnvilWarmup: cfg.Sessions.AnvilWarmup,
	})

	server := mcp.NewServer(mcp.Options{
		Name:     c.App.Name,
		Version:  c.App.Version,
		Catalog:  catalog,
		Overlay:  toolspec.LoadOverlay(cfg.Foundry.ContextPath),
		Executor: foundry.NewExecutor(locator, logger),
		Sessions: manager,
		Guard:    guard,
		Chains:   chains.NewClient(chains.DefaultConfig(), logger),
		Tokens:   tokens.NewClient(tokens.DefaultConfig(), logger),
		Logger:   logger,
	})

	return server.Run(context.Background())
}
