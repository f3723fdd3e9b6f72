package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/foundrykit/foundry-mcp/internal/interfaces/cli/output"
)

// PolicyCommand returns the policy command.
func PolicyCommand() *cli.Command {
	return &cli.Command{
		Name:   "policy",
		Usage:  "Print the effective security policy, built-in restrictions included",
		Action: showPolicy,
	}
}

func showPolicy(c *cli.Context) error {
	formatter := output.NewFormatter(c.String("output"))

	cfg, err := loadConfig(c)
	if err != nil {
		formatter.Error(err.Error())
		return err
	}

	pol, err := loadPolicy(cfg)
	if err != nil {
		formatter.Error(err.Error())
		return err
	}

	formatter.Policy(pol)
	return nil
}
