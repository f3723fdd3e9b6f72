package foundry

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/felixgeelhaar/bolt"

	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// Result is the outcome of a one-shot command. A non-zero exit is a result,
// not an error: the combined output usually carries the compiler or RPC
// diagnostics the caller wants to see.
type Result struct {
	Output   string
	ExitCode int
	Success  bool
}

// Executor runs one-shot Foundry commands.
type Executor struct {
	locator Locator
	logger  *bolt.Logger
}

// NewExecutor creates an executor using the given binary locator.
func NewExecutor(locator Locator, logger *bolt.Logger) *Executor {
	return &Executor{locator: locator, logger: logger}
}

// Execute builds the argument vector for a tool invocation and runs it,
// capturing stdout and stderr.
func (e *Executor) Execute(ctx context.Context, def toolspec.ToolDefinition, args map[string]any) (*Result, error) {
	argv, err := BuildArgs(def, args)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, def.BaseCommand(), argv)
}

// Run executes a base binary with an already-built argument vector. The two
// output streams are captured separately and concatenated stdout first, so
// diagnostics always follow the command's payload.
func (e *Executor) Run(ctx context.Context, binary string, argv []string) (*Result, error) {
	path, err := e.locator.Locate(binary)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("binary", path).
		Int("args", len(argv)).
		Msg("executing command")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			e.logger.Debug().
				Str("binary", path).
				Int("exit_code", code).
				Msg("command exited non-zero")
			return &Result{Output: stdout.String() + stderr.String(), ExitCode: code, Success: false}, nil
		}

		return nil, types.NewDomainError("foundry.Run", types.ErrSpawnFailure, err).
			WithContext("binary", path)
	}

	return &Result{Output: stdout.String() + stderr.String(), ExitCode: 0, Success: true}, nil
}
