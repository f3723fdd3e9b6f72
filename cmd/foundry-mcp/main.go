package main

import (
	"os"

	"github.com/foundrykit/foundry-mcp/internal/interfaces/cli"
)

func main() {
	app := cli.NewApp()
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
