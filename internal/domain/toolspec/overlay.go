package toolspec

import (
	"encoding/json"
	"os"
)

// DescriptionOverlay enriches tool, flag and positional descriptions with
// repository-local context, typically loaded from a context.json next to the
// project being worked on.
type DescriptionOverlay struct {
	Tools       map[string]string `json:"tools,omitempty"`
	Flags       map[string]string `json:"flags,omitempty"`
	Positionals map[string]string `json:"positionals,omitempty"`
}

// LoadOverlay loads an overlay from a JSON file, falling back to an empty
// overlay when the file is missing or unreadable.
func LoadOverlay(path string) *DescriptionOverlay {
	data, err := os.ReadFile(path)
	if err != nil {
		return &DescriptionOverlay{}
	}

	var overlay DescriptionOverlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		return &DescriptionOverlay{}
	}
	return &overlay
}

// ToolDescription returns the original description, extended with any
// overlay context for the named tool.
func (o *DescriptionOverlay) ToolDescription(name, original string) string {
	return extend(original, o.Tools[name])
}

// FlagDescription returns the original description, extended with any
// overlay context for the named flag or option.
func (o *DescriptionOverlay) FlagDescription(name, original string) string {
	return extend(original, o.Flags[name])
}

// PositionalDescription returns the original description, extended with any
// overlay context for the named positional.
func (o *DescriptionOverlay) PositionalDescription(name, original string) string {
	return extend(original, o.Positionals[name])
}

func extend(original, extra string) string {
	if extra == "" {
		return original
	}
	return original + "\n\n" + extra
}
