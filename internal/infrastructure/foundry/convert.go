package foundry

import (
	"context"
	"fmt"
	"sort"

	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// conversions maps a conversion name to the cast subcommand that performs it.
// Each takes the value as its single positional, with any extra arguments
// appended verbatim.
var conversions = map[string]string{
	"to-hex":              "to-hex",
	"to-dec":              "to-dec",
	"to-base":             "to-base",
	"to-wei":              "to-wei",
	"from-wei":            "from-wei",
	"to-unit":             "to-unit",
	"to-checksum-address": "to-check-sum-address",
	"to-ascii":            "to-ascii",
	"to-bytes32":          "to-bytes32",
	"to-rlp":              "to-rlp",
	"from-rlp":            "from-rlp",
	"to-fixed-point":      "to-fixed-point",
	"from-fixed-point":    "from-fixed-point",
	"keccak":              "keccak",
	"max-int":             "max-int",
	"min-int":             "min-int",
	"max-uint":            "max-uint",
	"address-zero":        "address-zero",
	"hash-zero":           "hash-zero",
}

// zeroValueConversions need no input value.
var zeroValueConversions = map[string]bool{
	"max-int":      true,
	"min-int":      true,
	"max-uint":     true,
	"address-zero": true,
	"hash-zero":    true,
}

// ConversionNames returns the supported conversion names in sorted order.
func ConversionNames() []string {
	names := make([]string, 0, len(conversions))
	for name := range conversions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert runs a unit or encoding conversion through cast. The value is
// required except for the constant conversions (max-int and friends); extra
// arguments pass through to the subcommand.
func (e *Executor) Convert(ctx context.Context, conversion, value string, extra []string) (*Result, error) {
	sub, ok := conversions[conversion]
	if !ok {
		return nil, types.NewDomainError("foundry.Convert", types.ErrToolNotFound,
			fmt.Errorf("unknown conversion %q, supported: %v", conversion, ConversionNames()))
	}

	argv := []string{sub}
	if value != "" {
		argv = append(argv, value)
	} else if !zeroValueConversions[conversion] {
		return nil, types.NewDomainError("foundry.Convert", types.ErrMissingArgument,
			fmt.Errorf("conversion %q requires a value", conversion))
	}
	argv = append(argv, extra...)

	return e.Run(ctx, "cast", argv)
}
