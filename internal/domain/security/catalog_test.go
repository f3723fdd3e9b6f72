package security_test

import (
	"testing"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
)

const catalogSchema = `{
  "tools": [
    {
      "name": "forge_build",
      "description": "Build the project's smart contracts",
      "options": [
        {"name": "root", "type": "path", "description": "Project root", "required": false}
      ]
    },
    {
      "name": "forge_script",
      "description": "Run a deployment script",
      "options": [
        {"name": "rpc-url", "type": "string", "description": "RPC endpoint", "required": false},
        {"name": "private-key", "type": "string", "description": "Signing key", "required": false}
      ],
      "flags": [
        {"name": "broadcast", "type": "boolean", "description": "Broadcast the transactions", "required": false}
      ]
    },
    {
      "name": "anvil",
      "description": "Start a local Ethereum node"
    },
    {
      "name": "cast_call",
      "description": "Perform a call on an account",
      "positionals": [
        {"name": "to", "type": "string", "description": "Destination address", "required": true, "index": 0}
      ],
      "options": [
        {"name": "rpc-url", "type": "string", "description": "RPC endpoint", "required": false}
      ]
    }
  ]
}`

func catalogRegistry(t *testing.T) *toolspec.Registry {
	t.Helper()
	file, err := toolspec.ParseSchema([]byte(catalogSchema))
	if err != nil {
		t.Fatal(err)
	}
	return toolspec.NewRegistry(file)
}

func TestNewCatalog_DropsForbiddenCommands(t *testing.T) {
	reg := catalogRegistry(t)

	policy, err := security.ParsePolicy([]byte(`{
		"forbiddenCommands": ["anvil"],
		"forbiddenFlags": ["broadcast"],
		"allowDangerous": true
	}`))
	if err != nil {
		t.Fatal(err)
	}

	catalog := security.NewCatalog(reg, policy)

	if _, ok := catalog.Lookup("anvil"); ok {
		t.Error("expected anvil to be dropped")
	}
	if _, ok := catalog.Lookup("forge_build"); !ok {
		t.Error("expected forge_build to survive")
	}
	if _, ok := catalog.Lookup("cast_call"); !ok {
		t.Error("expected cast_call to survive")
	}
	if catalog.Len() != 3 {
		t.Errorf("expected 3 tools, got %d", catalog.Len())
	}
}

func TestNewCatalog_BaseCommandMatch(t *testing.T) {
	reg := catalogRegistry(t)

	policy, err := security.ParsePolicy([]byte(`{
		"forbiddenCommands": ["forge"],
		"allowDangerous": true
	}`))
	if err != nil {
		t.Fatal(err)
	}

	catalog := security.NewCatalog(reg, policy)

	// Forbidding the base command removes every tool under it.
	for _, name := range []string{"forge_build", "forge_script"} {
		if _, ok := catalog.Lookup(name); ok {
			t.Errorf("expected %s to be dropped via base command", name)
		}
	}
	if _, ok := catalog.Lookup("cast_call"); !ok {
		t.Error("expected cast_call to survive")
	}
}

func TestNewCatalog_RedactsForbiddenFlags(t *testing.T) {
	reg := catalogRegistry(t)

	policy, err := security.ParsePolicy([]byte(`{
		"forbiddenFlags": ["broadcast", "private-key"],
		"allowDangerous": true
	}`))
	if err != nil {
		t.Fatal(err)
	}

	catalog := security.NewCatalog(reg, policy)

	script, ok := catalog.Lookup("forge_script")
	if !ok {
		t.Fatal("expected forge_script to survive")
	}

	if len(script.Flags) != 0 {
		t.Errorf("expected broadcast flag to be redacted, got %+v", script.Flags)
	}
	if len(script.Options) != 1 || script.Options[0].Name != "rpc-url" {
		t.Errorf("expected only rpc-url option, got %+v", script.Options)
	}

	// The full definition keeps the redacted parameters. Execution works
	// from this, not from the advertised lists.
	if len(script.Definition.Flags) != 1 || len(script.Definition.Options) != 2 {
		t.Error("expected the underlying definition to stay unfiltered")
	}
}

func TestNewCatalog_DefaultPolicyScenario(t *testing.T) {
	reg := catalogRegistry(t)
	catalog := security.NewCatalog(reg, security.DefaultPolicy())

	// anvil is dangerous by default; everything else survives.
	if _, ok := catalog.Lookup("anvil"); ok {
		t.Error("expected anvil to be dropped by the default policy")
	}
	script, ok := catalog.Lookup("forge_script")
	if !ok {
		t.Fatal("expected forge_script to survive the default policy")
	}

	// broadcast and private-key are dangerous by default.
	if len(script.Flags) != 0 {
		t.Errorf("expected broadcast to be redacted, got %+v", script.Flags)
	}
	for _, opt := range script.Options {
		if opt.Name == "private-key" {
			t.Error("expected private-key to be redacted")
		}
	}

	// Positionals are never redacted.
	call, ok := catalog.Lookup("cast_call")
	if !ok {
		t.Fatal("expected cast_call to survive")
	}
	if len(call.Positionals) != 1 || call.Positionals[0].Name != "to" {
		t.Errorf("unexpected positionals: %+v", call.Positionals)
	}
}

func TestCatalog_ToolsOrder(t *testing.T) {
	reg := catalogRegistry(t)
	catalog := security.NewCatalog(reg, &security.Policy{AllowDangerous: true})

	tools := catalog.Tools()
	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}

	want := []string{"anvil", "cast_call", "forge_build", "forge_script"}
	for i, name := range want {
		if tools[i].Definition.Name != name {
			t.Errorf("tools[%d] = %s, want %s", i, tools[i].Definition.Name, name)
		}
	}
}
