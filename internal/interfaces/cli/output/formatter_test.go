package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/internal/interfaces/cli/output"
)

func TestFormatter_Messages(t *testing.T) {
	tests := []struct {
		name   string
		format string
		print  func(f *output.Formatter)
		want   string
	}{
		{"text success", "text", func(f *output.Formatter) { f.Success("done") }, "✓ done"},
		{"text error", "text", func(f *output.Formatter) { f.Error("broken") }, "✗ broken"},
		{"text info", "text", func(f *output.Formatter) { f.Info("note") }, "ℹ note"},
		{"json success", "json", func(f *output.Formatter) { f.Success("done") }, `"status": "success"`},
		{"json error", "json", func(f *output.Formatter) { f.Error("broken") }, `"message": "broken"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.print(output.NewFormatterWriter(tt.format, buf))
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func testCatalog(t *testing.T) *security.Catalog {
	t.Helper()
	file, err := toolspec.ParseSchema([]byte(`{
		"tools": [
			{"name": "forge_build", "description": "Build the project"},
			{"name": "anvil", "description": "Start a local node"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return security.NewCatalog(toolspec.NewRegistry(file), security.DefaultPolicy())
}

func TestFormatter_CatalogText(t *testing.T) {
	buf := &bytes.Buffer{}
	output.NewFormatterWriter("text", buf).Catalog(testCatalog(t))

	got := buf.String()
	if !strings.Contains(got, "forge_build") {
		t.Errorf("expected forge_build in output, got %q", got)
	}
	if strings.Contains(got, "anvil") {
		t.Errorf("anvil is filtered by the default policy, got %q", got)
	}
	if !strings.Contains(got, "1 tools exposed") {
		t.Errorf("expected summary line, got %q", got)
	}
}

func TestFormatter_CatalogJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	output.NewFormatterWriter("json", buf).Catalog(testCatalog(t))

	var payload struct {
		Tools []map[string]any `json:"tools"`
		Count int              `json:"count"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	if payload.Count != 1 || len(payload.Tools) != 1 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestFormatter_Policy(t *testing.T) {
	buf := &bytes.Buffer{}
	output.NewFormatterWriter("text", buf).Policy(security.DefaultPolicy())

	got := buf.String()
	for _, want := range []string{"anvil", "chisel", "broadcast", "private-key"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in policy output, got %q", want, got)
		}
	}

	buf.Reset()
	output.NewFormatterWriter("json", buf).Policy(security.DefaultPolicy())
	var pol security.Policy
	if err := json.Unmarshal(buf.Bytes(), &pol); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	if !pol.IsCommandForbidden("anvil") {
		t.Error("expected anvil in serialized policy")
	}
}
