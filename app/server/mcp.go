package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"vregbot/app/service/linkify"
	"vregbot/app/service/retrieval"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

// MCPServer exposes FAQ search and link normalization as MCP tools over
// stdio, independent of the HTTP surface.
type MCPServer struct {
	retrievalSvc *retrieval.Service
}

func NewMCPServer(di *do.Injector) (*MCPServer, error) {
	return &MCPServer{
		retrievalSvc: do.MustInvoke[*retrieval.Service](di),
	}, nil
}

func (s *MCPServer) Run(ctx context.Context) {
	srv := mcpserver.NewMCPServer("vregbot", "1.0.0")

	srv.AddTool(mcp.NewTool("faq_search",
		mcp.WithDescription("Search the VREG FAQ knowledge base and return ranked matches"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
	), s.handleFAQSearch)

	srv.AddTool(mcp.NewTool("linkify",
		mcp.WithDescription("Convert bare URLs and email addresses in text to HTML anchors"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to process")),
	), s.handleLinkify)

	stdio := mcpserver.NewStdioServer(srv)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		slog.Error("MCP server stopped", "error", err)
	}
}

func (s *MCPServer) handleFAQSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := s.retrievalSvc.Query(ctx, query, searchTopK)

	data, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (s *MCPServer) handleLinkify(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(linkify.Normalize(text)), nil
}
