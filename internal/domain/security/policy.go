// Package security implements the restriction policy applied to the wrapped
// toolchain: which commands are exposed at all, and which flags are redacted
// from the advertised catalog.
package security

import (
	"encoding/json"
	"fmt"
	"os"
)

// Policy is the security policy applied to the tool catalog.
type Policy struct {
	// ForbiddenCommands lists tool names or base commands that must not be
	// exposed (e.g. "anvil", "forge_script").
	ForbiddenCommands []string `json:"forbiddenCommands"`

	// ForbiddenFlags lists flag/option names redacted from the advertised
	// parameter lists (e.g. "broadcast", "private-key").
	ForbiddenFlags []string `json:"forbiddenFlags"`

	// AllowDangerous disables the built-in dangerous restrictions.
	AllowDangerous bool `json:"allowDangerous"`
}

// DangerousCommands are forbidden by default when AllowDangerous is false.
func DangerousCommands() []string {
	return []string{
		"anvil",  // runs a local Ethereum node; use the anvil session tools instead
		"chisel", // opens an interactive REPL; use the chisel session tools instead
	}
}

// DangerousFlags are forbidden by default when AllowDangerous is false.
func DangerousFlags() []string {
	return []string{
		"broadcast",   // broadcasts transactions to real networks
		"private-key", // raw private key material
		"mnemonic",    // raw mnemonic phrases
		"legacy",      // legacy transaction types
		"unlock",      // unlocking accounts
	}
}

// DefaultPolicy returns an empty policy with the dangerous restrictions
// applied.
func DefaultPolicy() *Policy {
	p := &Policy{}
	p.ApplyDangerousRestrictions()
	return p
}

// ParsePolicy parses a policy from JSON bytes and applies the dangerous
// restrictions unless the policy opts out.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse security policy: %w", err)
	}

	p.ApplyDangerousRestrictions()
	return &p, nil
}

// LoadPolicy loads a policy from a JSON file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read security policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// LoadPolicyOrDefault loads a policy from path if the file exists, falling
// back to the default policy otherwise. A present-but-unparsable file is an
// error rather than a silent downgrade.
func LoadPolicyOrDefault(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultPolicy(), nil
	}
	return LoadPolicy(path)
}

// ApplyDangerousRestrictions merges the built-in dangerous commands and flags
// into the policy unless AllowDangerous is set. The merge is idempotent:
// entries already present are not duplicated.
func (p *Policy) ApplyDangerousRestrictions() {
	if p.AllowDangerous {
		return
	}

	p.ForbiddenCommands = mergeUnique(p.ForbiddenCommands, DangerousCommands())
	p.ForbiddenFlags = mergeUnique(p.ForbiddenFlags, DangerousFlags())
}

// IsCommandForbidden reports whether a command or tool name is forbidden.
func (p *Policy) IsCommandForbidden(command string) bool {
	for _, c := range p.ForbiddenCommands {
		if c == command {
			return true
		}
	}
	return false
}

// IsFlagForbidden reports whether a flag or option name is forbidden.
func (p *Policy) IsFlagForbidden(flag string) bool {
	for _, f := range p.ForbiddenFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// ForbiddenFlagIn returns the first forbidden flag present in names, if any.
func (p *Policy) ForbiddenFlagIn(names []string) (string, bool) {
	for _, name := range names {
		if p.IsFlagForbidden(name) {
			return name, true
		}
	}
	return "", false
}

// Save writes the policy to a file in JSON format.
func (p *Policy) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize security policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write security policy %s: %w", path, err)
	}
	return nil
}

func mergeUnique(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	for _, v := range extra {
		if _, ok := seen[v]; ok {
			continue
		}
		existing = append(existing, v)
		seen[v] = struct{}{}
	}
	return existing
}
