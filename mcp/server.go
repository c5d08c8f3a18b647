// Package mcp exposes the cefidata services as Model Context Protocol
// tools. Every tool returns plain text: lookup misses and unavailable
// backends are rendered as sentinel strings rather than protocol errors,
// so an agent always gets a readable answer.
package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/noaa-psl/cefidata"
)

// Server identity reported during the MCP handshake.
const (
	ServerName    = "cefi_data"
	ServerVersion = "1.0.0"
)

// IndexSource serves the catalog index recorded by the most recent crawl.
// Implemented by the sqlite store and the crawler's JSON output file.
type IndexSource interface {
	LatestIndex(ctx context.Context) (*cefidata.CatalogIndex, error)
}

// Server wires the cefidata services into an MCP tool server.
type Server struct {
	mcp *server.MCPServer
}

// NewServer registers the full tool surface against the given services.
func NewServer(nav *cefidata.Navigator, datasets cefidata.DatasetService, catalogs IndexSource) *Server {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(GetLevelOptions(nav))
	s.AddTool(GetLevelName(nav))
	s.AddTool(GetRegionOptions(nav))
	s.AddTool(GetSubdomainOptions(nav))
	s.AddTool(GetExperimentOptions(nav))
	s.AddTool(GetOutputFrequencyOptions(nav))
	s.AddTool(GetGridTypeOptions(nav))
	s.AddTool(GetReleaseDateOptions(nav))
	s.AddTool(GetVariableCategoryOptions(nav))
	s.AddTool(GetVariableNameOptions(nav))
	s.AddTool(GetOpendapURL())
	s.AddTool(GetFileMetadata(datasets))
	s.AddTool(GetCatalogFiles(catalogs))

	return &Server{mcp: s}
}

// ServeStdio serves requests over the process's standard input and output
// until the input stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// Listen serves requests over the given streams until ctx is cancelled or
// the input stream closes.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
