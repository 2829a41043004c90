package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uidocgen/pkg/docgen"
	"github.com/gnana997/uidocgen/pkg/docs"
)

func (s *Server) handleParseComponentDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resolver, err := docgen.ResolverByName(req.GetString("resolver", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := s.gen.Parse(ctx, []byte(code), docgen.Options{
		Filename: req.GetString("filename", ""),
		Resolver: resolver,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(records)
}

func (s *Server) handleParseFileDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resolver, err := docgen.ResolverByName(req.GetString("resolver", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path = s.resolvePath(path)
	src, err := s.readSource(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err)), nil
	}

	records, err := s.gen.Parse(ctx, src, docgen.Options{
		Filename: path,
		Resolver: resolver,
		Importer: s.opts.Importer,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(records)
}

// readSource returns a private copy of path's contents. Cached reads alias
// a mapping that Invalidate may unmap while the parse is running.
func (s *Server) readSource(path string) ([]byte, error) {
	if s.opts.Files == nil {
		return os.ReadFile(path)
	}
	data, err := s.opts.Files.Read(path)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

// resolvePath makes path absolute against the server root.
func (s *Server) resolvePath(path string) string {
	if !filepath.IsAbs(path) && s.opts.Root != "" {
		path = filepath.Join(s.opts.Root, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func jsonResult(records []*docs.Documentation) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode documentation: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
