// Package mcp exposes the documentation generator as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docgen"
	"github.com/gnana997/uidocgen/pkg/mcplog"
	"github.com/gnana997/uidocgen/pkg/util"
)

const serverName = "uidocgen"

// Version is reported to MCP clients.
var Version = "0.1.0-dev"

// Options configures a Server.
type Options struct {
	// Root anchors relative paths passed to parse_file_docs; empty means
	// the working directory.
	Root string

	// Importer resolves imports for parse_file_docs; nil ignores them.
	Importer ast.Importer

	// Files reads sources for parse_file_docs, so invalidating a path there
	// is seen by the next call; nil reads from disk every time.
	Files util.FileCache

	// Logger records every tool call; nil disables call logging.
	Logger *mcplog.Logger
}

// Server is the MCP server.
type Server struct {
	mcpServer *server.MCPServer
	gen       *docgen.Generator
	opts      Options
}

// NewServer creates a server documenting with gen.
func NewServer(gen *docgen.Generator, opts Options) *Server {
	s := &Server{gen: gen, opts: opts}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if opts.Logger != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, Version, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: parseComponentDocsTool(), Handler: s.handleParseComponentDocs},
		server.ServerTool{Tool: parseFileDocsTool(), Handler: s.handleParseFileDocs},
	)
	return s
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
