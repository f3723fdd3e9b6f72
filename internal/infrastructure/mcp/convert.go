package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/foundrykit/foundry-mcp/internal/infrastructure/foundry"
)

func (s *Server) registerConversionTool() {
	s.mcp.AddTool(mcp.NewTool("cast_convert",
		mcp.WithDescription("Convert values between units and encodings using cast: "+
			strings.Join(foundry.ConversionNames(), ", ")),
		mcp.WithString("conversion",
			mcp.Required(),
			mcp.Description("The conversion to perform"),
			mcp.Enum(foundry.ConversionNames()...),
		),
		mcp.WithString("value",
			mcp.Description("The value to convert; not needed for constant conversions like max-int"),
		),
		mcp.WithArray("args",
			mcp.Description("Extra arguments for the conversion, e.g. the unit for to-unit"),
		),
	), s.handleConvert)
}

func (s *Server) handleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversion, err := req.RequireString("conversion")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	value := stringArg(args, "value")

	var extra []string
	if list, ok := args["args"].([]any); ok {
		for _, item := range list {
			extra = append(extra, fmt.Sprintf("%v", item))
		}
	}

	result, err := s.opts.Executor.Convert(ctx, conversion, value, extra)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !result.Success {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Conversion failed with exit code %d:\n%s", result.ExitCode, result.Output)), nil
	}

	output := strings.TrimSpace(result.Output)
	if output == "" {
		output = SuccessNoOutput
	}
	return mcp.NewToolResultText(output), nil
}
