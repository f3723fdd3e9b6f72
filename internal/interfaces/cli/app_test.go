package cli_test

import (
	"testing"

	"github.com/foundrykit/foundry-mcp/internal/interfaces/cli"
)

func TestNewApp(t *testing.T) {
	app := cli.NewApp()

	if app.Name != "foundry-mcp" {
		t.Errorf("expected app name 'foundry-mcp', got %s", app.Name)
	}
	if app.DefaultCommand != "serve" {
		t.Errorf("expected serve to be the default command, got %s", app.DefaultCommand)
	}

	want := map[string]bool{"serve": false, "tools": false, "policy": false}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected command %q to be registered", name)
		}
	}

	flags := map[string]bool{"config": false, "log-level": false, "output": false}
	for _, flag := range app.Flags {
		for _, name := range flag.Names() {
			if _, ok := flags[name]; ok {
				flags[name] = true
			}
		}
	}
	for name, found := range flags {
		if !found {
			t.Errorf("expected flag %q to be registered", name)
		}
	}
}
