package toolspec

import _ "embed"

//go:embed schemas.json
var defaultSchema []byte

// DefaultSchema parses the tool definitions compiled into the binary. A
// schema file on disk, when configured, takes precedence over this set.
func DefaultSchema() (*SchemaFile, error) {
	return ParseSchema(defaultSchema)
}
