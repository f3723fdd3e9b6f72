// Package cli assembles the command line application.
package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/foundrykit/foundry-mcp/internal/interfaces/cli/commands"
)

// NewApp creates the CLI application.
func NewApp() *cli.App {
	app := &cli.App{
		Name:           "foundry-mcp",
		Usage:          "MCP server exposing the Foundry toolchain",
		Version:        "0.1.0",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			commands.ServeCommand(),
			commands.ToolsCommand(),
			commands.PolicyCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "foundry-mcp.yaml",
				EnvVars: []string{"FOUNDRY_MCP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"FOUNDRY_MCP_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format (text, json)",
				Value:   "text",
				EnvVars: []string{"FOUNDRY_MCP_OUTPUT"},
			},
		},
	}

	return app
}
