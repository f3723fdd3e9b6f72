// Package sessions manages the stateful slots: one anvil local node process
// and one chisel REPL. Each kind has a single slot; starting an already
// running slot or stopping an empty one is an error. The anvil slot owns its
// process; the chisel slot is a liveness marker and every evaluation runs in
// a fresh process.
package sessions

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/felixgeelhaar/bolt"
	"github.com/google/uuid"

	"github.com/foundrykit/foundry-mcp/internal/infrastructure/foundry"
	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// Kind identifies a session slot.
type Kind string

const (
	KindAnvil  Kind = "anvil"
	KindChisel Kind = "chisel"
)

// Config carries the session timing knobs.
type Config struct {
	// EvalTimeout bounds a single chisel evaluation.
	EvalTimeout time.Duration
	// AnvilWarmup is how long to wait after spawning anvil before declaring
	// it healthy.
	AnvilWarmup time.Duration
}

// DefaultConfig returns the standard session timings.
func DefaultConfig() Config {
	return Config{
		EvalTimeout: 10 * time.Second,
		AnvilWarmup: time.Second,
	}
}

// Status describes a session slot to clients.
type Status struct {
	Running   bool      `json:"running"`
	ID        string    `json:"id,omitempty"`
	Kind      Kind      `json:"kind"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Port      int       `json:"port,omitempty"`
	Output    string    `json:"output,omitempty"`
}

// session is one occupied slot. cmd is nil for marker sessions that own no
// process, such as the chisel REPL slot.
type session struct {
	id        string
	kind      Kind
	cmd       *exec.Cmd
	startedAt time.Time
	port      int
	output    *outputBuffer

	// waitDone is closed-over by the goroutine that reaps the process.
	// When set, terminate must receive from it instead of calling Wait.
	waitDone chan error
}

// Manager owns the session slots. One mutex guards the registry; process
// spawning and chisel evaluation run outside the lock.
type Manager struct {
	locator foundry.Locator
	logger  *bolt.Logger
	cfg     Config

	mu    sync.Mutex
	slots map[Kind]*session
}

// NewManager creates a session manager.
func NewManager(locator foundry.Locator, logger *bolt.Logger, cfg Config) *Manager {
	if cfg.EvalTimeout <= 0 {
		cfg.EvalTimeout = DefaultConfig().EvalTimeout
	}
	if cfg.AnvilWarmup <= 0 {
		cfg.AnvilWarmup = DefaultConfig().AnvilWarmup
	}
	return &Manager{
		locator: locator,
		logger:  logger,
		cfg:     cfg,
		slots:   make(map[Kind]*session),
	}
}

// Status reports the state of a slot.
func (m *Manager) Status(kind Kind) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[kind]
	if !ok {
		return Status{Running: false, Kind: kind}
	}
	st := Status{
		Running:   true,
		ID:        s.id,
		Kind:      s.kind,
		StartedAt: s.startedAt,
		Port:      s.port,
	}
	if s.cmd != nil && s.cmd.Process != nil {
		st.PID = s.cmd.Process.Pid
	}
	if s.output != nil {
		st.Output = s.output.String()
	}
	return st
}

// Stop terminates the slot of the given kind.
func (m *Manager) Stop(kind Kind) error {
	m.mu.Lock()
	s, ok := m.slots[kind]
	if ok {
		delete(m.slots, kind)
	}
	m.mu.Unlock()

	if !ok {
		return types.NewDomainError("sessions.Stop", types.ErrSessionNotRunning,
			fmt.Errorf("no %s session is running", kind))
	}

	m.logger.Info().
		Str("session_id", s.id).
		Str("kind", string(kind)).
		Msg("stopping session")

	return s.terminate()
}

// StopAll terminates every running slot, collecting per-slot errors. Slots
// that are simply empty do not contribute errors.
func (m *Manager) StopAll() error {
	m.mu.Lock()
	slots := make([]*session, 0, len(m.slots))
	for _, s := range m.slots {
		slots = append(slots, s)
	}
	m.slots = make(map[Kind]*session)
	m.mu.Unlock()

	var errs []error
	for _, s := range slots {
		if err := s.terminate(); err != nil {
			errs = append(errs, fmt.Errorf("%s session: %w", s.kind, err))
		}
	}
	return errors.Join(errs...)
}

// register installs a session into its slot, failing if the slot is taken.
func (m *Manager) register(s *session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[s.kind]; ok {
		return types.NewDomainError("sessions.register", types.ErrSessionAlreadyRunning,
			fmt.Errorf("a %s session is already running", s.kind))
	}
	m.slots[s.kind] = s
	return nil
}

// occupied reports whether a slot is taken, without mutating it.
func (m *Manager) occupied(kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[kind]
	return ok
}

func newSession(kind Kind, cmd *exec.Cmd, port int, output *outputBuffer) *session {
	return &session{
		id:        uuid.NewString(),
		kind:      kind,
		cmd:       cmd,
		startedAt: time.Now(),
		port:      port,
		output:    output,
	}
}

// reapTimeout bounds how long teardown waits for a killed process to be
// reaped. An orphaned grandchild holding the output pipe keeps Wait blocked;
// shutdown must not block with it.
const reapTimeout = 2 * time.Second

// sessionCommand builds a process command in its own process group so that
// teardown can kill children the binary spawned, not just the binary itself.
func sessionCommand(path string, args ...string) *exec.Cmd {
	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

// killProcessGroup kills the command's process group, falling back to the
// direct child when the group is gone already.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}

// awaitExit waits for the reaper goroutine, bounded by reapTimeout.
func awaitExit(done <-chan error) {
	select {
	case <-done:
	case <-time.After(reapTimeout):
	}
}

// terminate kills the slot's process group if one is attached and reaps it,
// best effort. Marker sessions with no process are a no-op.
func (s *session) terminate() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	killProcessGroup(s.cmd)
	done := s.waitDone
	if done == nil {
		ch := make(chan error, 1)
		go func() { ch <- s.cmd.Wait() }()
		done = ch
	}
	awaitExit(done)
	return nil
}

// outputBuffer is a bounded, concurrency-safe sink for process output. Once
// the cap is hit the oldest bytes are discarded.
type outputBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	cap int
}

func newOutputBuffer() *outputBuffer {
	return &outputBuffer{cap: 64 * 1024}
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.Write(p)
	if b.buf.Len() > b.cap {
		data := b.buf.Bytes()
		trimmed := make([]byte, b.cap)
		copy(trimmed, data[len(data)-b.cap:])
		b.buf.Reset()
		b.buf.Write(trimmed)
	}
	return len(p), nil
}

func (b *outputBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
