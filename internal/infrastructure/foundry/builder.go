package foundry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// BuildArgs translates a tool invocation into the argument vector passed to
// the base binary. The order is deterministic: the subcommand and long-flag
// tokens decoded from the tool name, then positionals by declared index, then
// boolean flags in declaration order, then valued options in declaration
// order.
func BuildArgs(def toolspec.ToolDefinition, args map[string]any) ([]string, error) {
	_, argv := toolspec.DecodeName(def.Name)

	positionals := make([]toolspec.PositionalSpec, len(def.Positionals))
	copy(positionals, def.Positionals)
	sort.SliceStable(positionals, func(i, j int) bool {
		return positionals[i].OrderIndex() < positionals[j].OrderIndex()
	})

	for _, pos := range positionals {
		raw, supplied := args[pos.Name]
		values, ok := scalarValues(raw)
		if !ok {
			// A supplied but uncoercible value is dropped; only a truly
			// absent key trips the required check.
			if pos.Required && !supplied {
				return nil, missingArgument(def.Name, "positional", pos.Name)
			}
			continue
		}
		argv = append(argv, values...)
	}

	for _, flag := range def.Flags {
		if truthy(args[flag.Name]) {
			argv = append(argv, "--"+flag.Name)
		}
	}

	for _, opt := range def.Options {
		raw, supplied := args[opt.Name]
		if !supplied && opt.Default != nil {
			raw = decodeDefault(opt.Default)
			supplied = true
		}

		values, ok := scalarValues(raw)
		if !ok {
			if opt.Required && !supplied {
				return nil, missingArgument(def.Name, "option", opt.Name)
			}
			continue
		}
		for _, v := range values {
			argv = append(argv, "--"+opt.Name, v)
		}
	}

	return argv, nil
}

// scalarValues coerces an argument into its command-line string values.
// Strings and numbers coerce; arrays expand element-wise, keeping only the
// coercible elements. Booleans, objects and null do not coerce and are
// treated as absent.
func scalarValues(v any) ([]string, bool) {
	if list, ok := v.([]any); ok {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := coerceScalar(item); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	}

	if s, ok := coerceScalar(v); ok {
		return []string{s}, true
	}
	return nil, false
}

func coerceScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func decodeDefault(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func missingArgument(tool, kind, name string) error {
	return types.NewDomainError("foundry.BuildArgs", types.ErrMissingArgument,
		fmt.Errorf("tool %s: required %s %q not provided", tool, kind, name)).
		WithContext("tool", tool).
		WithContext("argument", name)
}
