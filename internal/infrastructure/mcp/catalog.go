package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/foundrykit/foundry-mcp/internal/domain/security"
	"github.com/foundrykit/foundry-mcp/internal/domain/toolspec"
)

// SuccessNoOutput is returned when a command succeeds silently.
const SuccessNoOutput = "Command executed successfully (no output)"

// registerCatalogTools converts every advertised tool into an MCP tool. The
// handler closes over the full definition: redacted parameters are hidden
// from the advertisement but still honored at build time, with the argument
// guard (when enabled) rejecting calls that name them.
func (s *Server) registerCatalogTools() {
	for _, adv := range s.opts.Catalog.Tools() {
		s.mcp.AddTool(s.buildTool(adv), s.catalogHandler(adv.Definition))
	}
}

func (s *Server) buildTool(adv security.AdvertisedTool) mcp.Tool {
	def := adv.Definition
	overlay := s.opts.Overlay

	opts := []mcp.ToolOption{
		mcp.WithDescription(overlay.ToolDescription(def.Name, def.Description)),
	}

	for _, pos := range adv.Positionals {
		desc := overlay.PositionalDescription(pos.Name, pos.Description)
		opts = append(opts, paramOption(pos.Name, pos.Type, desc, pos.Required))
	}
	for _, opt := range adv.Options {
		desc := overlay.FlagDescription(opt.Name, opt.Description)
		opts = append(opts, paramOption(opt.Name, opt.Type, desc, opt.Required))
	}
	for _, flag := range adv.Flags {
		desc := overlay.FlagDescription(flag.Name, flag.Description)
		opts = append(opts, mcp.WithBoolean(flag.Name, propertyOptions(desc, flag.Required)...))
	}

	return mcp.NewTool(def.Name, opts...)
}

func paramOption(name string, typ toolspec.ParamType, desc string, required bool) mcp.ToolOption {
	props := propertyOptions(desc, required)
	switch typ {
	case toolspec.TypeNumber:
		return mcp.WithNumber(name, props...)
	case toolspec.TypeBoolean:
		return mcp.WithBoolean(name, props...)
	case toolspec.TypeArray:
		return mcp.WithArray(name, props...)
	default:
		return mcp.WithString(name, props...)
	}
}

func propertyOptions(desc string, required bool) []mcp.PropertyOption {
	props := []mcp.PropertyOption{mcp.Description(desc)}
	if required {
		props = append(props, mcp.Required())
	}
	return props
}

func (s *Server) catalogHandler(def toolspec.ToolDefinition) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		if s.opts.Guard != nil {
			if err := s.opts.Guard.Check(ctx, def.Name, args); err != nil {
				s.audit(security.NewAuditEvent(security.AuditToolRejected, def.Name).
					WithDetail("reason", err.Error()))
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		start := time.Now()
		result, err := s.opts.Executor.Execute(ctx, def, args)
		if err != nil {
			s.audit(security.NewAuditEvent(security.AuditToolFailed, def.Name).
				WithDetail("error", err.Error()))
			return mcp.NewToolResultError(err.Error()), nil
		}

		s.audit(security.NewAuditEvent(security.AuditToolInvoked, def.Name).
			WithDetail("exit_code", result.ExitCode).
			WithDetail("duration", time.Since(start).String()))

		if !result.Success {
			return mcp.NewToolResultError(fmt.Sprintf(
				"Command failed with exit code %d:\n%s", result.ExitCode, result.Output)), nil
		}

		output := result.Output
		if strings.TrimSpace(output) == "" {
			output = SuccessNoOutput
		}
		return mcp.NewToolResultText(output), nil
	}
}
