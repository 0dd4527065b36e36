package mcp

import (
	"log/slog"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(src Source, ix history.Index, vp chart.Viewport, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength training log. List exercises, look up the last session and heaviest set, follow top-set progression and volume, and render progression charts."),
	)

	h := &handlers{src: src, ix: ix, vp: vp, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExerciseSummary, Handler: h.getExerciseSummary},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
		server.ServerTool{Tool: toolGetRecentWorkouts, Handler: h.getRecentWorkouts},
		server.ServerTool{Tool: toolRenderChart, Handler: h.renderChart},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	src Source
	ix  history.Index
	vp  chart.Viewport
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"liftlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise name logged so far, sorted alphabetically"),
	mcp.WithMIMEType("application/json"),
)
