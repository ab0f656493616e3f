// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the converter to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veidar/munin/internal/exporter"
	"github.com/veidar/munin/internal/mapping"
	"github.com/veidar/munin/internal/parser"
	"github.com/veidar/munin/internal/storage"
)

// Server wraps the MCP server with converter tools.
type Server struct {
	mcp    *server.MCPServer
	store  storage.Provider
	ex     *exporter.Exporter
	ext    string
	output string
}

// New creates a new MCP server with all converter tools registered.
func New(store storage.Provider, ex *exporter.Exporter, ext, output string) *Server {
	s := &Server{store: store, ex: ex, ext: ext, output: output}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every Markdown note in the vault."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("preview_note",
		mcp.WithDescription("Convert a single note and return its Ideaflow token stream as JSON."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.previewNote)

	s.mcp.AddTool(mcp.NewTool("export_vault",
		mcp.WithDescription("Convert the whole vault and write the Ideaflow import document."),
	), s.exportVault)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) listNotes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.store.List("")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) previewNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}

	titles, err := mapping.Build(s.store, s.ext, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := mapping.TitleFromPath(path, s.ext)
	tokens := parser.Tokenize(title+"\n"+string(data), titles)

	out, _ := json.MarshalIndent(tokens, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) exportVault(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, _, err := s.ex.Export(s.output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported %d notes to %s", len(doc.Notes), s.output)), nil
}
