package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikiquery/metrics"
	"github.com/olgasafonova/wikiquery/tracing"
	"github.com/olgasafonova/wikiquery/wiki"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete wiki client methods.
type HandlerRegistry struct {
	client *wiki.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *wiki.Client, logger *slog.Logger) *HandlerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &HandlerRegistry{
		client: client,
		logger: logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	registered := 0
	for _, spec := range AllTools {
		if h.registerByName(server, spec) {
			registered++
		}
	}
	h.logger.Info("Registered all tools", "count", registered)
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) bool {
	tool := h.buildTool(spec)
	c := h.client

	switch spec.Method {
	// Discovery
	case "Search":
		register(h, server, tool, spec, c.SearchMCP)
	case "Random":
		register(h, server, tool, spec, c.RandomMCP)
	case "GeoSearch":
		register(h, server, tool, spec, c.GeoSearchMCP)

	// Page
	case "PageInfo":
		register(h, server, tool, spec, c.PageInfoMCP)
	case "Summary":
		register(h, server, tool, spec, c.SummaryMCP)
	case "Content":
		register(h, server, tool, spec, c.ContentMCP)
	case "HTML":
		register(h, server, tool, spec, c.HTMLMCP)
	case "Images":
		register(h, server, tool, spec, c.ImagesMCP)
	case "MainImage":
		register(h, server, tool, spec, c.MainImageMCP)

	// Structure
	case "References":
		register(h, server, tool, spec, c.ReferencesMCP)
	case "Links":
		register(h, server, tool, spec, c.LinksMCP)
	case "Categories":
		register(h, server, tool, spec, c.CategoriesMCP)
	case "Backlinks":
		register(h, server, tool, spec, c.BacklinksMCP)
	case "Coordinates":
		register(h, server, tool, spec, c.CoordinatesMCP)

	// Infobox
	case "Infobox":
		register(h, server, tool, spec, c.InfoboxMCP)

	default:
		h.logger.Warn("Unknown tool method", "tool", spec.Name, "method", spec.Method)
		return false
	}
	return true
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (*mcp.CallToolResult, Result, error) {
		return invoke(h, ctx, spec, args, method)
	})
}

// invoke runs one tool call. It is split from register so tests can drive
// the wrapper without an MCP session.
func invoke[Args, Result any](
	h *HandlerRegistry,
	ctx context.Context,
	spec ToolSpec,
	args Args,
	method func(context.Context, Args) (Result, error),
) (_ *mcp.CallToolResult, result Result, err error) {
	defer h.recoverPanic(spec.Name, &err)

	ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
	defer span.End()

	tracing.AddToolAttributes(span, spec.Name, spec.Category)
	span.SetAttributes(attribute.Bool("mcp.tool.readonly", spec.ReadOnly))

	metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
	defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

	start := time.Now()
	result, err = method(ctx, args)
	duration := time.Since(start).Seconds()

	span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

	if err != nil {
		tracing.RecordError(span, err)
		metrics.RecordRequest(spec.Name, duration, false)
		h.logger.Warn("Tool failed", "tool", spec.Name, "error_code", wiki.Code(err), "error", err)
		var zero Result
		return nil, zero, fmt.Errorf("%s failed: %w", spec.Name, err)
	}

	span.SetStatus(codes.Ok, "")
	metrics.RecordRequest(spec.Name, duration, true)
	h.logExecution(spec, args, result)
	return nil, result, nil
}

// recoverPanic recovers from panics in tool handlers and reports them as errors.
func (h *HandlerRegistry) recoverPanic(toolName string, err *error) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
		if err != nil {
			*err = fmt.Errorf("%s failed: internal error", toolName)
		}
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}

	switch a := args.(type) {
	case wiki.SearchArgs:
		attrs = append(attrs, "query", a.Query, "offset", a.Offset)
	case wiki.RandomArgs:
		attrs = append(attrs, "limit", a.Limit)
	case wiki.GeoSearchArgs:
		attrs = append(attrs, "lat", a.Lat, "lon", a.Lon, "radius", a.Radius)
	case wiki.PageArgs:
		attrs = append(attrs, "title", a.Title)
	case wiki.PageListArgs:
		attrs = append(attrs, "title", a.Title)
	case wiki.CategoriesArgs:
		attrs = append(attrs, "title", a.Title, "include_hidden", a.IncludeHidden)
	case wiki.InfoboxArgs:
		attrs = append(attrs, "title", a.Title, "key", a.Key)
	}

	switch r := result.(type) {
	case wiki.SearchResult:
		attrs = append(attrs, "results_count", r.Count, "has_more", r.HasMore)
	case wiki.TitlesResult:
		attrs = append(attrs, "results_count", r.Count)
	case wiki.TextResult:
		attrs = append(attrs, "chars", len(r.Text), "truncated", r.Truncated)
	case wiki.ImagesResult:
		attrs = append(attrs, "images", r.Count)
	case wiki.MainImageResult:
		attrs = append(attrs, "found", r.Found)
	case wiki.ReferencesResult:
		attrs = append(attrs, "references", r.Count)
	case wiki.PageListResult:
		attrs = append(attrs, "results_count", r.Count)
	case wiki.CoordinatesResult:
		attrs = append(attrs, "found", r.Found)
	case wiki.InfoboxResult:
		attrs = append(attrs, "found", r.Found, "fields", len(r.Fields))
	}

	h.logger.Info("Tool executed", attrs...)
}
