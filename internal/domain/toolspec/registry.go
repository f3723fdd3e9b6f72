package toolspec

import "sort"

// Registry is an immutable, in-memory catalog of tool definitions, built once
// at startup.
type Registry struct {
	byName map[string]ToolDefinition
	names  []string
}

// NewRegistry builds a registry from a schema file. Later duplicates of a
// tool name replace earlier ones.
func NewRegistry(file *SchemaFile) *Registry {
	byName := make(map[string]ToolDefinition, len(file.Tools))
	for _, tool := range file.Tools {
		byName[tool.Name] = tool
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{byName: byName, names: names}
}

// Lookup returns the definition for a tool name.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Names returns all tool names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns all definitions in name order.
func (r *Registry) All() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.byName)
}
