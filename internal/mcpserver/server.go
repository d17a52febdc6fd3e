// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the built knowledge graph to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/gebo/internal/graph"
)

// Server wraps the MCP server with graph tools. The graph is built once at
// startup and served read-only.
type Server struct {
	mcp *server.MCPServer
	g   *graph.Graph
}

// New creates a new MCP server with all graph tools registered.
func New(g *graph.Graph) *Server {
	s := &Server{g: g}

	s.mcp = server.NewMCPServer(
		"Gebo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("graph_stats",
		mcp.WithDescription("Node, edge, and placeholder counts for the built knowledge graph."),
	), s.graphStats)

	s.mcp.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("Look up the graph node a wikilink reference to the given title resolves to."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Exact document or reference-target title")),
	), s.getNode)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all documents that link to the given title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Exact title to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List every document node in the graph (placeholders excluded)."),
	), s.listDocuments)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) graphStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.g.Stats(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, ok := s.g.NodeByTitle(title)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no node titled %q", title)), nil
	}
	out, _ := json.MarshalIndent(n, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBacklinks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl := s.g.Backlinks(title)
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	var paths []string
	for _, n := range bl {
		paths = append(paths, n.Filepath)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) listDocuments(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	for _, n := range s.g.Nodes {
		if n.Placeholder() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\t%s", n.Filepath, n.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("graph contains no documents"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
