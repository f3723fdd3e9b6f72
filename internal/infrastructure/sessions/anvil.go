package sessions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/foundrykit/foundry-mcp/pkg/types"
)

// AnvilOptions configure the local node.
type AnvilOptions struct {
	Port            int
	ForkURL         string
	ForkBlockNumber uint64
	Accounts        int
	BlockTime       int
}

// DefaultAnvilPort is used when no port is given.
const DefaultAnvilPort = 8545

// Args renders the options as anvil command-line arguments.
func (o AnvilOptions) Args() []string {
	args := []string{"--port", strconv.Itoa(o.port())}
	if o.ForkURL != "" {
		args = append(args, "--fork-url", o.ForkURL)
		if o.ForkBlockNumber > 0 {
			args = append(args, "--fork-block-number", strconv.FormatUint(o.ForkBlockNumber, 10))
		}
	}
	if o.Accounts > 0 {
		args = append(args, "--accounts", strconv.Itoa(o.Accounts))
	}
	if o.BlockTime > 0 {
		args = append(args, "--block-time", strconv.Itoa(o.BlockTime))
	}
	return args
}

func (o AnvilOptions) port() int {
	if o.Port > 0 {
		return o.Port
	}
	return DefaultAnvilPort
}

// StartAnvil spawns the local node, waits through the warm-up window, and
// registers the session if the process survived it.
func (m *Manager) StartAnvil(ctx context.Context, opts AnvilOptions) (Status, error) {
	if m.occupied(KindAnvil) {
		return Status{}, types.NewDomainError("sessions.StartAnvil", types.ErrSessionAlreadyRunning,
			fmt.Errorf("an anvil session is already running, stop it first"))
	}

	path, err := m.locator.Locate("anvil")
	if err != nil {
		return Status{}, err
	}

	output := newOutputBuffer()
	cmd := sessionCommand(path, opts.Args()...)
	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Start(); err != nil {
		return Status{}, types.NewDomainError("sessions.StartAnvil", types.ErrSpawnFailure, err).
			WithContext("binary", path)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	// Anvil fails fast on a bad port or fork URL. If it is still alive
	// after the warm-up it is considered healthy.
	select {
	case <-done:
		return Status{}, types.NewDomainError("sessions.StartAnvil", types.ErrSpawnFailure,
			fmt.Errorf("anvil exited during warm-up: %s", output.String()))
	case <-ctx.Done():
		killProcessGroup(cmd)
		awaitExit(done)
		return Status{}, ctx.Err()
	case <-time.After(m.cfg.AnvilWarmup):
	}

	s := newSession(KindAnvil, cmd, opts.port(), output)
	s.waitDone = done
	if err := m.register(s); err != nil {
		_ = s.terminate()
		return Status{}, err
	}

	m.logger.Info().
		Str("session_id", s.id).
		Int("port", s.port).
		Int("pid", cmd.Process.Pid).
		Msg("anvil session started")

	return m.Status(KindAnvil), nil
}

// StopAnvil terminates the local node session.
func (m *Manager) StopAnvil() error {
	return m.Stop(KindAnvil)
}

// AnvilStatus reports the local node slot.
func (m *Manager) AnvilStatus() Status {
	return m.Status(KindAnvil)
}
