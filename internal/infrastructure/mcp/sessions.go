package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/infrastructure/sessions"
)

func (s *Server) registerSessionTools() {
	s.mcp.AddTool(mcp.NewTool("anvil_start",
		mcp.WithDescription("Start a local anvil Ethereum node. Only one node can run at a time."),
		mcp.WithNumber("port", mcp.Description("Port to listen on (default 8545)")),
		mcp.WithString("fork_url", mcp.Description("JSON-RPC endpoint to fork state from")),
		mcp.WithNumber("fork_block_number", mcp.Description("Pin the fork to a specific block (requires fork_url)")),
		mcp.WithNumber("accounts", mcp.Description("Number of dev accounts to generate")),
		mcp.WithNumber("block_time", mcp.Description("Seconds between blocks; omit for instant mining")),
	), s.handleAnvilStart)

	s.mcp.AddTool(mcp.NewTool("anvil_stop",
		mcp.WithDescription("Stop the running anvil node."),
	), s.handleAnvilStop)

	s.mcp.AddTool(mcp.NewTool("anvil_status",
		mcp.WithDescription("Report whether an anvil node is running, with its port and recent output."),
	), s.handleAnvilStatus)

	s.mcp.AddTool(mcp.NewTool("chisel_start",
		mcp.WithDescription("Start a chisel Solidity REPL session. Only one session can run at a time."),
	), s.handleChiselStart)

	s.mcp.AddTool(mcp.NewTool("chisel_eval",
		mcp.WithDescription("Evaluate Solidity code in the chisel session."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Solidity statements or expressions to evaluate")),
	), s.handleChiselEval)

	s.mcp.AddTool(mcp.NewTool("chisel_stop",
		mcp.WithDescription("Stop the chisel REPL session."),
	), s.handleChiselStop)

	s.mcp.AddTool(mcp.NewTool("chisel_status",
		mcp.WithDescription("Report whether a chisel session is running."),
	), s.handleChiselStatus)
}

func (s *Server) handleAnvilStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	opts := sessions.AnvilOptions{
		Port:      intArg(args, "port"),
		ForkURL:   stringArg(args, "fork_url"),
		Accounts:  intArg(args, "accounts"),
		BlockTime: intArg(args, "block_time"),
	}
	if n := intArg(args, "fork_block_number"); n > 0 {
		opts.ForkBlockNumber = uint64(n)
	}

	status, err := s.opts.Sessions.StartAnvil(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.audit(security.NewAuditEvent(security.AuditSessionStarted, "anvil_start").
		WithDetail("session_id", status.ID).
		WithDetail("port", status.Port))

	return statusResult(status)
}

func (s *Server) handleAnvilStop(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.opts.Sessions.StopAnvil(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.audit(security.NewAuditEvent(security.AuditSessionStopped, "anvil_stop"))
	return mcp.NewToolResultText("Anvil node stopped"), nil
}

func (s *Server) handleAnvilStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return statusResult(s.opts.Sessions.AnvilStatus())
}

func (s *Server) handleChiselStart(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.opts.Sessions.StartChisel(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.audit(security.NewAuditEvent(security.AuditSessionStarted, "chisel_start").
		WithDetail("session_id", status.ID))

	return statusResult(status)
}

func (s *Server) handleChiselEval(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := s.opts.Sessions.EvalChisel(ctx, code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

func (s *Server) handleChiselStop(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.opts.Sessions.StopChisel(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.audit(security.NewAuditEvent(security.AuditSessionStopped, "chisel_stop"))
	return mcp.NewToolResultText("Chisel session stopped"), nil
}

func (s *Server) handleChiselStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return statusResult(s.opts.Sessions.ChiselStatus())
}

func statusResult(status sessions.Status) (*mcp.CallToolResult, error) {
	text, err := jsonText(status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

func intArg(args map[string]any, name string) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func int64Arg(args map[string]any, name string) int64 {
	return int64(intArg(args, name))
}
