// SPDX-License-Identifier: MIT

package mcptool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/logger"
)

// ServerName is the MCP implementation name.
const ServerName = "depmatrix"

// NewServer registers every tool on a new MCP server.
func NewServer(cfg config.Config, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	ts := NewToolset(cfg)
	mcp.AddTool(server, MetadataDiscover, ts.Discover)
	mcp.AddTool(server, MetadataEvaluate, ts.Evaluate)
	mcp.AddTool(server, MetadataStats, ts.Stats)

	return server
}

// RunStdio serves the tools over stdin/stdout until ctx is cancelled or the
// client disconnects.
func RunStdio(ctx context.Context, cfg config.Config, version string) error {
	logger.Info("starting MCP server on stdio", "name", ServerName, "version", version)

	return NewServer(cfg, version).Run(ctx, &mcp.StdioTransport{})
}
