package foundry_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/bolt"

	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/foundry"
	"github.com/foundrykit/foundry-mcp/pkg/types"
)

func newTestLogger() *bolt.Logger {
	return bolt.New(bolt.NewJSONHandler(io.Discard))
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestExecutor_Execute(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "cast", `echo "argv: $@"`)

	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: dir}, newTestLogger())

	def := toolspec.ToolDefinition{
		Name: "cast_call",
		Positionals: []toolspec.PositionalSpec{
			{Name: "to", Required: true},
		},
	}

	res, err := exec.Execute(context.Background(), def, map[string]any{"to": "0xabc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Success || res.ExitCode != 0 {
		t.Errorf("expected success, got %+v", res)
	}
	if !strings.Contains(res.Output, "argv: call 0xabc") {
		t.Errorf("unexpected output: %q", res.Output)
	}
}

func TestExecutor_NonZeroExitIsRecovered(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "forge", `echo "compile failed" >&2; exit 3`)

	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: dir}, newTestLogger())

	res, err := exec.Run(context.Background(), "forge", []string{"build"})
	if err != nil {
		t.Fatalf("non-zero exit should not be an error: %v", err)
	}

	if res.Success {
		t.Error("expected Success=false")
	}
	if res.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", res.ExitCode)
	}
	// stderr is captured alongside stdout
	if !strings.Contains(res.Output, "compile failed") {
		t.Errorf("expected stderr in combined output, got %q", res.Output)
	}
}

func TestExecutor_StdoutPrecedesStderr(t *testing.T) {
	dir := t.TempDir()
	// stderr is written first; the result still reports stdout first.
	writeScript(t, dir, "forge", `echo "warning" >&2; echo "payload"`)

	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: dir}, newTestLogger())

	res, err := exec.Run(context.Background(), "forge", []string{"build"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output != "payload\nwarning\n" {
		t.Errorf("unexpected output order: %q", res.Output)
	}
}

func TestExecutor_BinaryNotFound(t *testing.T) {
	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: t.TempDir()}, newTestLogger())

	_, err := exec.Run(context.Background(), "forge", []string{"build"})
	if !errors.Is(err, types.ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "foundryup") {
		t.Error("expected the install hint in the error")
	}
}

func TestExecutor_SpawnFailure(t *testing.T) {
	dir := t.TempDir()
	// Executable bit set but not a runnable format: exec fails before the
	// process starts.
	if err := os.WriteFile(filepath.Join(dir, "cast"), []byte{0x00, 0x01}, 0o755); err != nil {
		t.Fatal(err)
	}

	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: dir}, newTestLogger())

	_, err := exec.Run(context.Background(), "cast", nil)
	if !errors.Is(err, types.ErrSpawnFailure) {
		t.Fatalf("expected ErrSpawnFailure, got %v", err)
	}
}

func TestExecutor_Convert(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "cast", `echo "$@"`)

	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: dir}, newTestLogger())
	ctx := context.Background()

	res, err := exec.Convert(ctx, "to-wei", "1.5", []string{"ether"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(res.Output); got != "to-wei 1.5 ether" {
		t.Errorf("unexpected argv: %q", got)
	}

	// Constant conversions need no value.
	res, err = exec.Convert(ctx, "max-uint", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(res.Output); got != "max-uint" {
		t.Errorf("unexpected argv: %q", got)
	}
}

func TestExecutor_ConvertErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "cast", `echo ok`)
	exec := foundry.NewExecutor(foundry.FixedLocator{Dir: dir}, newTestLogger())
	ctx := context.Background()

	if _, err := exec.Convert(ctx, "to-parsecs", "1", nil); !errors.Is(err, types.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound for unknown conversion, got %v", err)
	}
	if _, err := exec.Convert(ctx, "to-hex", "", nil); !errors.Is(err, types.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument for missing value, got %v", err)
	}
}

func TestConversionNames(t *testing.T) {
	names := foundry.ConversionNames()
	if len(names) == 0 {
		t.Fatal("expected conversions to be registered")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("expected sorted names, got %v", names)
		}
	}
}
