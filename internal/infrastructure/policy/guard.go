// Package policy enforces the security policy at call time. The advertised
// catalog already hides forbidden tools and flags, but a client is free to
// name a hidden flag in its arguments anyway; the guard rejects those calls
// before a command line is ever built.
package policy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/bolt"
	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// guardModule is the Rego policy evaluated for every tool call.
const guardModule = `
package foundry.guard

violations contains msg if {
	some flag in input.forbidden_flags
	some name in input.argument_names
	name == flag
	msg := sprintf("argument %q is forbidden by the security policy", [flag])
}

violations contains msg if {
	some cmd in input.forbidden_commands
	cmd == input.tool
	msg := sprintf("tool %q is forbidden by the security policy", [cmd])
}

violations contains msg if {
	some cmd in input.forbidden_commands
	cmd == input.base_command
	msg := sprintf("command %q is forbidden by the security policy", [cmd])
}
`

// Guard evaluates tool calls against the security policy.
type Guard struct {
	logger *bolt.Logger
	policy *security.Policy
	query  rego.PreparedEvalQuery
}

// NewGuard prepares the evaluation query once; per-call work is evaluation
// only.
func NewGuard(ctx context.Context, pol *security.Policy, logger *bolt.Logger) (*Guard, error) {
	query, err := rego.New(
		rego.Query("data.foundry.guard.violations"),
		rego.Module("guard.rego", guardModule),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, types.NewDomainError("policy.NewGuard", types.ErrPolicyInvalid, err)
	}

	return &Guard{logger: logger, policy: pol, query: query}, nil
}

// Check rejects a tool call that names a forbidden tool, base command, or
// argument. A nil error means the call may proceed.
func (g *Guard) Check(ctx context.Context, toolName string, args map[string]any) error {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	input := map[string]any{
		"tool":               toolName,
		"base_command":       toolspec.BaseCommand(toolName),
		"argument_names":     names,
		"forbidden_flags":    g.policy.ForbiddenFlags,
		"forbidden_commands": g.policy.ForbiddenCommands,
	}

	results, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return types.NewDomainError("policy.Check", types.ErrPolicyInvalid, err)
	}

	violations := collectViolations(results)
	if len(violations) == 0 {
		return nil
	}

	g.logger.Warn().
		Str("tool", toolName).
		Int("violations", len(violations)).
		Msg("tool call rejected by argument guard")

	cause := fmt.Errorf("%s", strings.Join(violations, "; "))
	if g.policy.IsCommandForbidden(toolName) || g.policy.IsCommandForbidden(toolspec.BaseCommand(toolName)) {
		cause = fmt.Errorf("%w: %s", types.ErrToolForbidden, strings.Join(violations, "; "))
	}
	return types.NewDomainError("policy.Check", types.ErrPolicyViolation, cause).
		WithContext("tool", toolName)
}

func collectViolations(results rego.ResultSet) []string {
	var out []string
	for _, result := range results {
		for _, expr := range result.Expressions {
			values, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, v := range values {
				out = append(out, fmt.Sprintf("%v", v))
			}
		}
	}
	sort.Strings(out)
	return out
}
