package mcp

import (
	"context"
	"strings"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/chart/svg"
	"github.com/claude/liftlog/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultRecentLimit = 10

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List every distinct exercise name in the workout log, sorted alphabetically. Names differing only in case are listed separately."),
)

var toolGetExerciseSummary = mcp.NewTool("get_exercise_summary",
	mcp.WithDescription("Last session and heaviest weight ever lifted for an exercise. The name match ignores case and only the first matching exercise of each workout counts. Both fields are null when the exercise was never logged."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Chronological progression for an exercise: the top set (heaviest weight and its reps) of every workout, plus per-workout set count, reps and tonnage."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (case-insensitive)")),
)

var toolGetRecentWorkouts = mcp.NewTool("get_recent_workouts",
	mcp.WithDescription("Most recent workouts, newest first, with every exercise and set."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts. Defaults to 10; 0 returns all.")),
)

var toolRenderChart = mcp.NewTool("render_chart",
	mcp.WithDescription("Render the top-weight progression chart for an exercise, either as an SVG document or as the JSON drawing plan (gridlines, path, markers, labels)."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (case-insensitive)")),
	mcp.WithString("format", mcp.Description("Output format. Defaults to 'svg'."), mcp.Enum("svg", "json")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hist, err := h.src.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(h.ix.Catalog(hist))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	hist, err := h.src.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp get_exercise_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history.Summarize(hist, name))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	hist, err := h.src.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp get_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": name,
		"series":   history.Series(hist, name),
		"volume":   history.Volume(hist, name),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultRecentLimit)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	hist, err := h.src.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp get_recent_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	recent := history.Recent(hist)
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}

	result, err := mcp.NewToolResultJSON(recent)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) renderChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	format := req.GetString("format", "svg")
	if format != "svg" && format != "json" {
		return mcp.NewToolResultError("format must be svg or json"), nil
	}

	hist, err := h.src.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp render_chart", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	plan := chart.Render(history.Series(hist, name), name, h.vp)
	if format == "json" {
		result, err := mcp.NewToolResultJSON(plan)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	var b strings.Builder
	if err := svg.Encode(&b, plan); err != nil {
		h.log.Error("mcp render_chart svg", "error", err)
		return mcp.NewToolResultError("rendering failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}
