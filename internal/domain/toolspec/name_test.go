package toolspec_test

import (
	"reflect"
	"testing"

	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
)

func TestDecodeName(t *testing.T) {
	tests := []struct {
		name       string
		toolName   string
		wantBase   string
		wantTokens []string
	}{
		{
			name:       "base command only",
			toolName:   "anvil",
			wantBase:   "anvil",
			wantTokens: nil,
		},
		{
			name:       "single subcommand",
			toolName:   "forge_build",
			wantBase:   "forge",
			wantTokens: []string{"build"},
		},
		{
			name:       "hyphenated subcommand",
			toolName:   "forge_remove_mappings",
			wantBase:   "forge",
			wantTokens: []string{"remove-mappings"},
		},
		{
			name:       "subcommand followed by long flag",
			toolName:   "cast_block___number",
			wantBase:   "cast",
			wantTokens: []string{"block", "--number"},
		},
		{
			name:       "long flag without subcommand",
			toolName:   "forge____version",
			wantBase:   "forge",
			wantTokens: []string{"--version"},
		},
		{
			name:       "two long flags",
			toolName:   "cast_wallet___list____dir",
			wantBase:   "cast",
			wantTokens: []string{"wallet", "--list", "--dir"},
		},
		{
			name:       "segments after long flag are dropped",
			toolName:   "cast_block___number_extra",
			wantBase:   "cast",
			wantTokens: []string{"block", "--number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, tokens := toolspec.DecodeName(tt.toolName)
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q", base, tt.wantBase)
			}
			if !reflect.DeepEqual(tokens, tt.wantTokens) {
				t.Errorf("tokens = %v, want %v", tokens, tt.wantTokens)
			}
		})
	}
}

func TestBaseCommand(t *testing.T) {
	tests := []struct {
		toolName string
		want     string
	}{
		{"forge_build", "forge"},
		{"anvil", "anvil"},
		{"cast_block___number", "cast"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := toolspec.BaseCommand(tt.toolName); got != tt.want {
			t.Errorf("BaseCommand(%q) = %q, want %q", tt.toolName, got, tt.want)
		}
	}
}
