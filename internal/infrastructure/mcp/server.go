// Package mcp wires the tool catalog, sessions and data integrations into a
// stdio MCP server.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/bolt"
	"github.com/mark3labs/mcp-go/server"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/chains"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/foundry"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/policy"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/sessions"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/tokens"
)

const serverInstructions = `Foundry MCP server. Exposes the forge and cast command line tools as
schema-validated tools, manages a local anvil node and a chisel REPL as
sessions, and answers chain/RPC/token directory lookups. Commands run against
the local Foundry installation; dangerous commands and flags are hidden by
the active security policy.`

// Options carries the server's collaborators. Catalog, Executor, Sessions
// and Logger are required; Guard, Chains and Tokens are optional features.
type Options struct {
	Name    string
	Version string

	Catalog  *security.Catalog
	Overlay  *toolspec.DescriptionOverlay
	Executor *foundry.Executor
	Sessions *sessions.Manager
	Guard    *policy.Guard
	Chains   *chains.Client
	Tokens   *tokens.Client

	Logger *bolt.Logger
}

// Server is the assembled MCP server.
type Server struct {
	mcp    *server.MCPServer
	opts   Options
	logger *bolt.Logger
}

// NewServer assembles the MCP server and registers every tool and resource.
func NewServer(opts Options) *Server {
	if opts.Overlay == nil {
		opts.Overlay = &toolspec.DescriptionOverlay{}
	}

	mcpServer := server.NewMCPServer(
		opts.Name,
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithInstructions(serverInstructions),
	)

	s := &Server{
		mcp:    mcpServer,
		opts:   opts,
		logger: opts.Logger,
	}

	s.registerCatalogTools()
	s.registerSessionTools()
	s.registerConversionTool()
	if opts.Chains != nil {
		s.registerChainTools()
	}
	if opts.Tokens != nil {
		s.registerTokenTools()
	}

	return s
}

// Run serves the MCP protocol on stdio until the context is cancelled, the
// client disconnects, or a termination signal arrives. Sessions are stopped
// on the way out.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().
		Str("name", s.opts.Name).
		Str("version", s.opts.Version).
		Int("tools", s.opts.Catalog.Len()).
		Msg("starting MCP server on stdio")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(s.mcp)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case err := <-errCh:
		runErr = err
	case sig := <-sigCh:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		runErr = ctx.Err()
	}

	if err := s.opts.Sessions.StopAll(); err != nil {
		s.logger.Error().Err(err).Msg("failed to stop sessions during shutdown")
	}

	return runErr
}

// audit emits an audit event through the structured log.
func (s *Server) audit(event *security.AuditEvent) {
	entry := s.logger.Info().
		Str("audit_id", event.ID).
		Str("event", string(event.Type)).
		Str("tool", event.Tool)
	for key, value := range event.Details {
		entry = entry.Str(key, fmt.Sprintf("%v", value))
	}
	entry.Msg("audit")
}

// jsonText renders a payload as indented JSON for a text result.
func jsonText(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}
