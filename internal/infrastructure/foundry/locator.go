// Package foundry runs the wrapped CLI binaries: locating them on disk,
// building argument vectors from tool definitions, and executing one-shot
// commands.
package foundry

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// InstallHint is appended to binary-not-found errors so clients can surface
// actionable guidance.
const InstallHint = "Foundry does not appear to be installed. Install it with: curl -L https://foundry.paradigm.xyz | bash && foundryup"

// Locator resolves a binary name to an executable path.
type Locator interface {
	Locate(name string) (string, error)
}

// ProbeLocator checks a fixed list of well-known directories before falling
// back to a PATH lookup. Results are cached per binary name.
type ProbeLocator struct {
	dirs     []string
	lookPath func(string) (string, error)

	mu    sync.Mutex
	cache map[string]string
}

// DefaultSearchDirs returns the directories probed for Foundry binaries.
func DefaultSearchDirs() []string {
	dirs := make([]string, 0, 3)
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".foundry", "bin"))
	}
	return append(dirs, "/usr/local/bin", "/opt/homebrew/bin")
}

// NewLocator creates a locator probing the default directories.
func NewLocator() *ProbeLocator {
	return NewLocatorWithDirs(DefaultSearchDirs())
}

// NewLocatorWithDirs creates a locator probing the given directories.
func NewLocatorWithDirs(dirs []string) *ProbeLocator {
	return &ProbeLocator{
		dirs:     dirs,
		lookPath: exec.LookPath,
		cache:    make(map[string]string),
	}
}

// FixedLocator always resolves to the given path. Used when the config pins a
// bin directory, and in tests.
type FixedLocator struct {
	Dir string
}

func (l FixedLocator) Locate(name string) (string, error) {
	path := filepath.Join(l.Dir, name)
	if !isExecutableFile(path) {
		return "", types.NewDomainError("foundry.Locate", types.ErrBinaryNotFound,
			fmt.Errorf("%s not found in %s. %s", name, l.Dir, InstallHint))
	}
	return path, nil
}

// Locate returns the executable path for a binary name, probing the known
// directories first and PATH last.
func (l *ProbeLocator) Locate(name string) (string, error) {
	l.mu.Lock()
	if path, ok := l.cache[name]; ok {
		l.mu.Unlock()
		return path, nil
	}
	l.mu.Unlock()

	for _, dir := range l.dirs {
		path := filepath.Join(dir, name)
		if isExecutableFile(path) {
			l.store(name, path)
			return path, nil
		}
	}

	if path, err := l.lookPath(name); err == nil {
		l.store(name, path)
		return path, nil
	}

	return "", types.NewDomainError("foundry.Locate", types.ErrBinaryNotFound,
		fmt.Errorf("%s not found in %v or PATH. %s", name, l.dirs, InstallHint)).
		WithContext("binary", name).
		WithContext("searched", l.dirs)
}

func (l *ProbeLocator) store(name, path string) {
	l.mu.Lock()
	l.cache[name] = path
	l.mu.Unlock()
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
