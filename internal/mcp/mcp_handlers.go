package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	loader  contract.DatasetLoader
}

// chartOptions applies the request's overrides on top of the base configuration.
func (h *toolHandler) chartOptions(request mcp.CallToolRequest) (core.ChartOptions, error) {
	opts := core.OptionsFromConfig(h.baseCfg)
	if s := strings.TrimSpace(request.GetString("sort", "")); s != "" {
		sort, layout, err := schema.ParseSortAttribute(s)
		if err != nil {
			return opts, err
		}
		opts.Sort, opts.Layout, opts.SortExplicit = sort, layout, true
	}
	if top := request.GetInt("top", -1); top >= 0 {
		if top > contract.MaxTop {
			return opts, fmt.Errorf("top must be between 0 and %d", contract.MaxTop)
		}
		opts.Top = top
	}
	if k := request.GetString("kind", ""); k != "" {
		kind := schema.ChartKind(strings.ToLower(k))
		if _, ok := schema.ValidChartKinds[kind]; !ok || kind == schema.RegionChart {
			return opts, fmt.Errorf("invalid chart kind %q", k)
		}
		opts.Kind = kind
	}
	if r := request.GetString("regions", ""); r != "" {
		opts.Regions = r
	}
	return opts, nil
}

// chartName returns the requested name or one derived from the source.
func chartName(request mcp.CallToolRequest, source string) string {
	if name := request.GetString("name", ""); name != "" {
		return name
	}
	return contract.SourceName(source)
}

// manifestPath returns the requested manifest or the configured one.
func (h *toolHandler) manifestPath(request mcp.CallToolRequest) (string, error) {
	path := request.GetString("manifest", h.baseCfg.Manifest)
	if path == "" {
		return "", fmt.Errorf("a manifest path is required")
	}
	return path, nil
}

func (h *toolHandler) handleBuildChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := request.GetString("source", "")
	if source == "" {
		return mcp.NewToolResultError("source is required"), nil
	}
	opts, err := h.chartOptions(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chart parameters: %v", err)), nil
	}

	chart, err := core.LoadChart(core.WithSuppressHeader(ctx), h.loader, chartName(request, source), source, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chart failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(chart, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleJoinRegions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := request.GetString("source", "")
	if source == "" {
		return mcp.NewToolResultError("source is required"), nil
	}
	opts, err := h.chartOptions(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid region parameters: %v", err)), nil
	}
	opts.Kind = schema.RegionChart

	result, err := core.LoadRegions(core.WithSuppressHeader(ctx), h.loader, chartName(request, source), source, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("region join failed: %v", err)), nil
	}

	payload := struct {
		Name  string                     `json:"name"`
		Title string                     `json:"title"`
		Units string                     `json:"units,omitempty"`
		Rows  []schema.EnrichedRegionRow `json:"rows"`
	}{result.Name, result.Title, result.Units, schema.EnrichRegions(result.Rows)}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListCharts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := h.manifestPath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	manifest, err := contract.LoadManifest(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid manifest: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(manifest, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBuildDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := h.manifestPath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	manifest, err := contract.LoadManifest(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid manifest: %v", err)), nil
	}

	workers := h.baseCfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	result, err := core.RunDashboard(core.WithSuppressHeader(ctx), h.mgr, h.loader, manifest.Charts, workers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}

	payload := struct {
		Title string `json:"title,omitempty"`
		schema.DashboardResult
	}{manifest.Title, result}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
