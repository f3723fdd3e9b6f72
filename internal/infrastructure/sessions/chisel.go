package sessions

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// NoOutputMessage is returned when an evaluation produced nothing visible.
const NoOutputMessage = "Code executed (no output)"

// evalPoll is the interval at which a running evaluation is checked for
// completion.
const evalPoll = 100 * time.Millisecond

// StartChisel probes the chisel binary and registers a liveness marker for
// the REPL slot. The session owns no process: each evaluation runs in a
// fresh process, so a crash in user code never poisons the slot.
func (m *Manager) StartChisel(ctx context.Context) (Status, error) {
	if m.occupied(KindChisel) {
		return Status{}, types.NewDomainError("sessions.StartChisel", types.ErrSessionAlreadyRunning,
			fmt.Errorf("a chisel session is already running, stop it first"))
	}

	path, err := m.locator.Locate("chisel")
	if err != nil {
		return Status{}, err
	}

	// Probe the binary before committing the slot. A chisel that cannot
	// print its help will not evaluate anything either.
	probe := exec.CommandContext(ctx, path, "--help")
	if err := probe.Run(); err != nil {
		return Status{}, types.NewDomainError("sessions.StartChisel", types.ErrSpawnFailure,
			fmt.Errorf("chisel probe failed: %w", err)).
			WithContext("binary", path)
	}

	s := newSession(KindChisel, nil, 0, nil)
	if err := m.register(s); err != nil {
		return Status{}, err
	}

	m.logger.Info().
		Str("session_id", s.id).
		Str("binary", path).
		Msg("chisel session started")

	return m.Status(KindChisel), nil
}

// EvalChisel evaluates Solidity code in a fresh REPL process. The session
// must be started first; the evaluation itself runs outside the registry
// lock so a slow eval never blocks status or stop calls.
func (m *Manager) EvalChisel(ctx context.Context, code string) (string, error) {
	if !m.occupied(KindChisel) {
		return "", types.NewDomainError("sessions.EvalChisel", types.ErrSessionNotRunning,
			fmt.Errorf("no chisel session is running, start one first"))
	}

	path, err := m.locator.Locate("chisel")
	if err != nil {
		return "", err
	}

	cmd := sessionCommand(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", types.NewDomainError("sessions.EvalChisel", types.ErrSpawnFailure, err)
	}
	output := newOutputBuffer()
	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Start(); err != nil {
		return "", types.NewDomainError("sessions.EvalChisel", types.ErrSpawnFailure, err).
			WithContext("binary", path)
	}

	// The REPL exits on its own once it reads the quit directive.
	_, _ = io.WriteString(stdin, code+"\n!quit\n")
	_ = stdin.Close()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	deadline := time.NewTimer(m.cfg.EvalTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(evalPoll)
	defer tick.Stop()

	for {
		select {
		case <-done:
			return evalResult(output.String()), nil
		case <-tick.C:
			// still running, keep polling
		case <-ctx.Done():
			killProcessGroup(cmd)
			awaitExit(done)
			return "", ctx.Err()
		case <-deadline.C:
			killProcessGroup(cmd)
			awaitExit(done)
			return "", types.NewDomainError("sessions.EvalChisel", types.ErrEvalTimeout,
				fmt.Errorf("evaluation did not complete within %s", m.cfg.EvalTimeout))
		}
	}
}

// StopChisel clears the REPL slot.
func (m *Manager) StopChisel() error {
	return m.Stop(KindChisel)
}

// ChiselStatus reports the REPL slot.
func (m *Manager) ChiselStatus() Status {
	return m.Status(KindChisel)
}

var (
	ansiEscapes  = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
	promptMarker = "➜"
)

// CleanChiselOutput strips the REPL banner, prompt-only lines and terminal
// escapes from raw evaluation output. A prompt marker is removed only as a
// line prefix; once content has started, blank lines and interior markers
// are preserved.
func CleanChiselOutput(raw string) string {
	text := ansiEscapes.ReplaceAllString(raw, "")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Welcome to Chisel"):
			continue
		case strings.Contains(trimmed, "`!help`"):
			continue
		case trimmed == promptMarker:
			continue
		}
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, promptMarker))
		if trimmed == "" && len(lines) == 0 {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func evalResult(raw string) string {
	cleaned := CleanChiselOutput(raw)
	if cleaned == "" {
		return NoOutputMessage
	}
	return cleaned
}
