// Package output formats command results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formatter handles output formatting.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(format string) *Formatter {
	f := FormatText
	if format == "json" {
		f = FormatJSON
	}
	return &Formatter{
		format: f,
		writer: os.Stdout,
	}
}

// NewFormatterWriter creates a formatter writing to w.
func NewFormatterWriter(format string, w io.Writer) *Formatter {
	f := NewFormatter(format)
	f.writer = w
	return f
}

// Success prints a success message.
func (f *Formatter) Success(message string) {
	if f.format == FormatJSON {
		f.printJSON(map[string]any{
			"status":  "success",
			"message": message,
		})
		return
	}
	_, _ = fmt.Fprintf(f.writer, "✓ %s\n", message)
}

// Error prints an error message.
func (f *Formatter) Error(message string) {
	if f.format == FormatJSON {
		f.printJSON(map[string]any{
			"status":  "error",
			"message": message,
		})
		return
	}
	_, _ = fmt.Fprintf(f.writer, "✗ %s\n", message)
}

// Info prints an info message.
func (f *Formatter) Info(message string) {
	if f.format == FormatJSON {
		f.printJSON(map[string]any{
			"status":  "info",
			"message": message,
		})
		return
	}
	_, _ = fmt.Fprintf(f.writer, "ℹ %s\n", message)
}

// Catalog prints the exposed tool catalog.
func (f *Formatter) Catalog(catalog *security.Catalog) {
	tools := catalog.Tools()

	if f.format == FormatJSON {
		entries := make([]map[string]any, 0, len(tools))
		for _, tool := range tools {
			entries = append(entries, map[string]any{
				"name":        tool.Definition.Name,
				"description": tool.Definition.Description,
				"positionals": len(tool.Positionals),
				"options":     len(tool.Options),
				"flags":       len(tool.Flags),
			})
		}
		f.printJSON(map[string]any{
			"tools": entries,
			"count": len(entries),
		})
		return
	}

	w := tabwriter.NewWriter(f.writer, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPARAMS\tDESCRIPTION")
	for _, tool := range tools {
		params := len(tool.Positionals) + len(tool.Options) + len(tool.Flags)
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n",
			tool.Definition.Name, params, firstLine(tool.Definition.Description))
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(f.writer, "\n%d tools exposed\n", len(tools))
}

// Policy prints the effective security policy.
func (f *Formatter) Policy(pol *security.Policy) {
	if f.format == FormatJSON {
		f.printJSON(pol)
		return
	}

	_, _ = fmt.Fprintf(f.writer, "Allow dangerous: %v\n", pol.AllowDangerous)
	_, _ = fmt.Fprintf(f.writer, "Forbidden commands (%d):\n", len(pol.ForbiddenCommands))
	for _, cmd := range pol.ForbiddenCommands {
		_, _ = fmt.Fprintf(f.writer, "  - %s\n", cmd)
	}
	_, _ = fmt.Fprintf(f.writer, "Forbidden flags (%d):\n", len(pol.ForbiddenFlags))
	for _, flag := range pol.ForbiddenFlags {
		_, _ = fmt.Fprintf(f.writer, "  - %s\n", flag)
	}
}

func (f *Formatter) printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(f.writer, `{"status":"error","message":%q}`+"\n", err.Error())
		return
	}
	_, _ = fmt.Fprintln(f.writer, string(data))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
