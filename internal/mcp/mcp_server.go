// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// sortChoices are the sort spellings advertised to clients.
var sortChoices = []string{"None", "No sort", "Average", "Average delta"}

// NewMCPServer initializes and configures the genviz MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return newMCPServer(baseCfg, mgr, core.NewLoader(baseCfg, mgr))
}

func newMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, loader contract.DatasetLoader) *server.MCPServer {
	s := server.NewMCPServer(
		"genviz Survey Chart Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		loader:  loader,
	}

	// --- 1. Tool: build_chart ---
	s.AddTool(mcp.NewTool("build_chart",
		mcp.WithDescription("Build a ranked, windowed chart (x values, keys, matrix) from a survey export."),
		mcp.WithString("source", mcp.Description("File path or URL of the survey export."), mcp.Required()),
		mcp.WithString("name", mcp.Description("Chart name (defaults to the source file name).")),
		mcp.WithString("sort", mcp.Description("Sort attribute. Defaults to the export's metadata."), mcp.Enum(sortChoices...)),
		mcp.WithNumber("top", mcp.Description("Number of keys to keep. 0 keeps every key.")),
		mcp.WithString("kind", mcp.Description("Chart kind used by renderers."), mcp.Enum("bar", "heatmap", "line")),
	), h.handleBuildChart)

	// --- 2. Tool: join_regions ---
	s.AddTool(mcp.NewTool("join_regions",
		mcp.WithDescription("Join a regional survey export against the canonical region list for a choropleth."),
		mcp.WithString("source", mcp.Description("File path or URL of the survey export."), mcp.Required()),
		mcp.WithString("name", mcp.Description("Chart name (defaults to the source file name).")),
		mcp.WithString("regions", mcp.Description("Boundary GeoJSON whose features name the regions. Defaults to the built-in list.")),
		mcp.WithString("sort", mcp.Description("Sort attribute. Defaults to the export's metadata."), mcp.Enum(sortChoices...)),
	), h.handleJoinRegions)

	// --- 3. Tool: list_charts ---
	s.AddTool(mcp.NewTool("list_charts",
		mcp.WithDescription("List the charts defined in a dashboard manifest."),
		mcp.WithString("manifest", mcp.Description("Path to the dashboard manifest (defaults to the configured manifest).")),
	), h.handleListCharts)

	// --- 4. Tool: build_dashboard ---
	s.AddTool(mcp.NewTool("build_dashboard",
		mcp.WithDescription("Build every chart of a dashboard manifest. Failed charts are reported without affecting the others."),
		mcp.WithString("manifest", mcp.Description("Path to the dashboard manifest (defaults to the configured manifest).")),
	), h.handleBuildDashboard)

	return s
}

// StartMCPServer starts the genviz MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
