package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	chainlistURI = "chainlist://all"
	tokenlistURI = "tokenlist://all"
)

func (s *Server) registerChainTools() {
	s.mcp.AddTool(mcp.NewTool("search_rpc_url",
		mcp.WithDescription("Find public RPC URLs for a chain by name, short name or chain ID."),
		mcp.WithString("chain", mcp.Required(), mcp.Description("Chain name, short name or numeric chain ID")),
	), s.handleSearchRPC)

	s.mcp.AddTool(mcp.NewTool("search_chains",
		mcp.WithDescription("Search the chain directory by name, short name or chain ID."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text or numeric chain ID")),
	), s.handleSearchChains)

	s.mcp.AddTool(mcp.NewTool("list_popular_chains",
		mcp.WithDescription("List well-known networks with their chain IDs and native currencies."),
	), s.handleListPopularChains)

	s.mcp.AddResource(mcp.NewResource(
		chainlistURI,
		"Chain directory",
		mcp.WithResourceDescription("The full chainlist.org network directory"),
		mcp.WithMIMEType("application/json"),
	), s.handleChainlistResource)
}

func (s *Server) registerTokenTools() {
	s.mcp.AddTool(mcp.NewTool("search_tokens",
		mcp.WithDescription("Search the token list by symbol or name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Token symbol or name fragment")),
		mcp.WithNumber("chain_id", mcp.Description("Restrict results to one chain")),
	), s.handleSearchTokens)

	s.mcp.AddTool(mcp.NewTool("get_token_by_address",
		mcp.WithDescription("Look up a token by its contract address."),
		mcp.WithString("address", mcp.Required(), mcp.Description("Token contract address")),
		mcp.WithNumber("chain_id", mcp.Description("Restrict the lookup to one chain")),
	), s.handleTokenByAddress)

	s.mcp.AddTool(mcp.NewTool("list_chain_tokens",
		mcp.WithDescription("List every known token on a chain."),
		mcp.WithNumber("chain_id", mcp.Required(), mcp.Description("The chain to list tokens for")),
	), s.handleChainTokens)

	s.mcp.AddTool(mcp.NewTool("list_supported_chains",
		mcp.WithDescription("List the chain IDs covered by the token list."),
	), s.handleSupportedChains)

	s.mcp.AddResource(mcp.NewResource(
		tokenlistURI,
		"Token list",
		mcp.WithResourceDescription("The full Superchain token list"),
		mcp.WithMIMEType("application/json"),
	), s.handleTokenlistResource)
}

func (s *Server) handleSearchRPC(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chain, err := req.RequireString("chain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rpcs, err := s.opts.Chains.SearchRPC(ctx, chain)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rpcs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No RPC URLs found for %q", chain)), nil
	}
	return jsonResult(rpcs)
}

func (s *Server) handleSearchChains(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := s.opts.Chains.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No chains match %q", query)), nil
	}
	return jsonResult(matches)
}

func (s *Server) handleListPopularChains(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	popular, err := s.opts.Chains.ListPopular(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(popular)
}

func (s *Server) handleSearchTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := s.opts.Tokens.Search(ctx, query, int64Arg(req.GetArguments(), "chain_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No tokens match %q", query)), nil
	}
	return jsonResult(matches)
}

func (s *Server) handleTokenByAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := s.opts.Tokens.ByAddress(ctx, address, int64Arg(req.GetArguments(), "chain_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No token registered at %s", address)), nil
	}
	return jsonResult(matches)
}

func (s *Server) handleChainTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chainID := int64Arg(req.GetArguments(), "chain_id")
	if chainID == 0 {
		return mcp.NewToolResultError("chain_id is required"), nil
	}

	matches, err := s.opts.Tokens.ChainTokens(ctx, chainID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No tokens known on chain %d", chainID)), nil
	}
	return jsonResult(matches)
}

func (s *Server) handleSupportedChains(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.opts.Tokens.SupportedChains(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ids)
}

func (s *Server) handleChainlistResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	all, err := s.opts.Chains.All(ctx)
	if err != nil {
		return nil, err
	}
	text, err := jsonText(all)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: chainlistURI, MIMEType: "application/json", Text: text},
	}, nil
}

func (s *Server) handleTokenlistResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.opts.Tokens.All(ctx)
	if err != nil {
		return nil, err
	}
	text, err := jsonText(list)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: tokenlistURI, MIMEType: "application/json", Text: text},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	text, err := jsonText(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
