package security

import (
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
)

// AdvertisedTool is a tool as presented to clients: the full definition plus
// the parameter lists with forbidden flags and options removed.
//
// Redaction applies to what is advertised, not to what is accepted. Execution
// validates arguments against the full definition, so a client that supplies
// a redacted option by name still gets it built into the command line. The
// optional argument guard closes that gap at call time.
type AdvertisedTool struct {
	Definition  toolspec.ToolDefinition
	Positionals []toolspec.PositionalSpec
	Options     []toolspec.OptionSpec
	Flags       []toolspec.FlagSpec
}

// Catalog is the set of tools that survive the security policy.
type Catalog struct {
	tools  []AdvertisedTool
	index  map[string]*AdvertisedTool
	policy *Policy
}

// NewCatalog filters the registry through the policy. A tool is dropped when
// its full name or its base command is forbidden; surviving tools have
// forbidden flags and options removed from their advertised parameters.
func NewCatalog(reg *toolspec.Registry, policy *Policy) *Catalog {
	c := &Catalog{policy: policy}

	for _, def := range reg.All() {
		if policy.IsCommandForbidden(def.Name) || policy.IsCommandForbidden(def.BaseCommand()) {
			continue
		}
		c.tools = append(c.tools, advertise(def, policy))
	}

	c.index = make(map[string]*AdvertisedTool, len(c.tools))
	for i := range c.tools {
		c.index[c.tools[i].Definition.Name] = &c.tools[i]
	}
	return c
}

// Tools returns the advertised tools in registry (name) order.
func (c *Catalog) Tools() []AdvertisedTool {
	return c.tools
}

// Lookup returns the advertised tool by name.
func (c *Catalog) Lookup(name string) (*AdvertisedTool, bool) {
	t, ok := c.index[name]
	return t, ok
}

// Policy returns the policy the catalog was built with.
func (c *Catalog) Policy() *Policy {
	return c.policy
}

// Len returns the number of advertised tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

func advertise(def toolspec.ToolDefinition, policy *Policy) AdvertisedTool {
	t := AdvertisedTool{Definition: def}

	t.Positionals = def.Positionals

	for _, opt := range def.Options {
		if policy.IsFlagForbidden(opt.Name) {
			continue
		}
		t.Options = append(t.Options, opt)
	}
	for _, flag := range def.Flags {
		if policy.IsFlagForbidden(flag.Name) {
			continue
		}
		t.Flags = append(t.Flags, flag)
	}
	return t
}
