package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/interfaces/cli/output"
)

// ToolsCommand returns the tools command.
func ToolsCommand() *cli.Command {
	return &cli.Command{
		Name:   "tools",
		Usage:  "Print the tool catalog as filtered by the security policy",
		Action: listTools,
	}
}

func listTools(c *cli.Context) error {
	formatter := output.NewFormatter(c.String("output"))

	cfg, err := loadConfig(c)
	if err != nil {
		formatter.Error(err.Error())
		return err
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		formatter.Error(err.Error())
		return err
	}

	pol, err := loadPolicy(cfg)
	if err != nil {
		formatter.Error(err.Error())
		return err
	}

	formatter.Catalog(security.NewCatalog(registry, pol))
	return nil
}
