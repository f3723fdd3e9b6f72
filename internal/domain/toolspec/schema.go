// Package toolspec holds the declarative model of the wrapped Foundry CLI:
// tool definitions, their parameter specs, and the structured-name convention
// that folds subcommands and long flags into a single tool identifier.
package toolspec

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// ParamType is the declared type of a parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypePath    ParamType = "path"
	TypeArray   ParamType = "array"
)

// JSONSchemaType maps a declared parameter type to its JSON schema type.
func (t ParamType) JSONSchemaType() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeArray:
		return "array"
	default:
		// string, path and anything unknown advertise as string
		return "string"
	}
}

// PositionalSpec describes a positional argument.
type PositionalSpec struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required"`
	Index       *int      `json:"index,omitempty"`
}

// OrderIndex returns the declared ordering index, defaulting to zero.
func (p PositionalSpec) OrderIndex() int {
	if p.Index == nil {
		return 0
	}
	return *p.Index
}

// OptionSpec describes a flag that carries a value.
type OptionSpec struct {
	Name        string          `json:"name"`
	Type        ParamType       `json:"type"`
	Description string          `json:"description"`
	Required    bool            `json:"required"`
	Short       string          `json:"short,omitempty"`
	ValueName   string          `json:"value_name,omitempty"`
	Default     json.RawMessage `json:"default,omitempty"`
}

// FlagSpec describes a boolean flag.
type FlagSpec struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required"`
	Short       string    `json:"short,omitempty"`
}

// ToolDefinition describes one wrapped CLI invocation shape.
type ToolDefinition struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Positionals []PositionalSpec `json:"positionals,omitempty"`
	Options     []OptionSpec     `json:"options,omitempty"`
	Flags       []FlagSpec       `json:"flags,omitempty"`
}

// BaseCommand returns the binary segment of the tool name, the part before
// the first separator. For "forge_build" that is "forge".
func (d ToolDefinition) BaseCommand() string {
	return BaseCommand(d.Name)
}

// SchemaFile is the on-disk container for tool definitions.
type SchemaFile struct {
	Tools []ToolDefinition `json:"tools"`
}

// ParseSchema parses a schema file from JSON bytes.
func ParseSchema(data []byte) (*SchemaFile, error) {
	var file SchemaFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tool schemas: %w", err)
	}

	for i, tool := range file.Tools {
		if tool.Name == "" {
			return nil, types.NewDomainError("toolspec.ParseSchema", types.ErrSchemaInvalid,
				fmt.Errorf("tool %d has no name", i))
		}
		if BaseCommand(tool.Name) == "" {
			return nil, types.NewDomainError("toolspec.ParseSchema", types.ErrSchemaInvalid,
				fmt.Errorf("tool %q has no base command", tool.Name))
		}
	}

	return &file, nil
}

// LoadSchema loads a schema file from disk.
func LoadSchema(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	return ParseSchema(data)
}

// BaseCommand returns the segment of a tool name before the first separator.
func BaseCommand(name string) string {
	if i := strings.IndexByte(name, Separator); i >= 0 {
		return name[:i]
	}
	return name
}
