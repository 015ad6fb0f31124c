package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/cruxlog/internal/grades"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// scaleRefFromArgs builds a ScaleRef from a system name and an optional
// circuit id.
func scaleRefFromArgs(system, circuitID string) (grades.ScaleRef, error) {
	ref := grades.ScaleRef{System: grades.System(system)}
	if ref.System == grades.SystemCircuit {
		id, err := uuid.Parse(circuitID)
		if err != nil {
			return grades.ScaleRef{}, fmt.Errorf("circuit scale needs a valid circuit id: %w", err)
		}
		ref.CircuitID = id
	}
	return ref, nil
}

// --- Tool definitions ---

var toolConvertGrade = mcp.NewTool("convert_grade",
	mcp.WithDescription("Convert a climbing grade between scales. Returns the target label and whether the conversion is exact (curated mapping) or approximate (normalized difficulty fallback)."),
	mcp.WithString("grade", mcp.Required(), mcp.Description("Grade label in the source scale (e.g. 'V4', '6B+', '5.10a', '7a')")),
	mcp.WithString("from", mcp.Required(), mcp.Description("Source scale"), mcp.Enum("v_scale", "font", "yds", "french", "circuit")),
	mcp.WithString("to", mcp.Required(), mcp.Description("Target scale"), mcp.Enum("v_scale", "font", "yds", "french", "circuit")),
	mcp.WithString("from_circuit_id", mcp.Description("Circuit UUID when the source scale is 'circuit'")),
	mcp.WithString("to_circuit_id", mcp.Description("Circuit UUID when the target scale is 'circuit'")),
)

var toolListGradeScales = mcp.NewTool("list_grade_scales",
	mcp.WithDescription("List the built-in grade scales with their disciplines and grade counts."),
)

var toolGetGrades = mcp.NewTool("get_grades",
	mcp.WithDescription("List every grade of one scale in ascending difficulty order, with display labels and colors."),
	mcp.WithString("system", mcp.Required(), mcp.Description("Scale name"), mcp.Enum("v_scale", "font", "yds", "french", "circuit")),
	mcp.WithString("circuit_id", mcp.Description("Circuit UUID when system is 'circuit'")),
)

var toolGetAttempts = mcp.NewTool("get_attempts",
	mcp.WithDescription("Query logged attempts in a time range, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetSendStats = mcp.NewTool("get_send_stats",
	mcp.WithDescription("Per-grade send statistics: attempts, sends, flashes, and send rate grouped by scale and grade."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Aggregate training summary: route/attempt/send counts, completed workouts, and the hardest send across scales."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetCircuits = mcp.NewTool("get_circuits",
	mcp.WithDescription("List the user's gym circuits with their color bands and grade ranges."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query completed and cancelled workouts with optional type filter. Returns per-workout metrics: send rate, duration, hardest grade, average rest."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("type", mcp.Description("Filter by workout type"), mcp.Enum("freeform", "pyramid", "volume", "intervals")),
)

// --- Tool handlers ---

func (h *handlers) convertGrade(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	grade, err := req.RequireString("grade")
	if err != nil {
		return mcp.NewToolResultError("grade parameter is required"), nil
	}
	fromSys, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError("from parameter is required"), nil
	}
	toSys, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError("to parameter is required"), nil
	}

	fromRef, err := scaleRefFromArgs(fromSys, req.GetString("from_circuit_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	toRef, err := scaleRefFromArgs(toSys, req.GetString("to_circuit_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Disciplines are taken from the resolved scales; the tool surface
	// never asks callers to restate them.
	fromScale, err := h.resolver.Scale(ctx, fromRef)
	if err != nil {
		return mcp.NewToolResultError("source scale: " + err.Error()), nil
	}
	toScale, err := h.resolver.Scale(ctx, toRef)
	if err != nil {
		return mcp.NewToolResultError("target scale: " + err.Error()), nil
	}

	conv, err := h.converter.Convert(ctx, grades.GradeLabel(grade), fromRef, fromScale.Discipline(), toRef, toScale.Discipline())
	if err != nil {
		return mcp.NewToolResultError("conversion failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"label": conv.Label,
		"exact": conv.Exact,
		"from":  fromRef.String(),
		"to":    toRef.String(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listGradeScales(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []map[string]any
	for _, sys := range grades.Systems() {
		scale, err := grades.StaticScale(sys)
		if err != nil {
			continue
		}
		out = append(out, map[string]any{
			"system":     sys,
			"discipline": scale.Discipline(),
			"grades":     scale.Len(),
		})
	}
	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getGrades(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	system, err := req.RequireString("system")
	if err != nil {
		return mcp.NewToolResultError("system parameter is required"), nil
	}

	ref, err := scaleRefFromArgs(system, req.GetString("circuit_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scale, err := h.resolver.Scale(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError("scale lookup failed: " + err.Error()), nil
	}

	type gradeEntry struct {
		Label   grades.GradeLabel `json:"label"`
		Display string            `json:"display"`
		Colors  []string          `json:"colors,omitempty"`
	}
	out := make([]gradeEntry, 0, scale.Len())
	for _, label := range scale.Grades() {
		out = append(out, gradeEntry{
			Label:   label,
			Display: scale.DisplayLabel(label),
			Colors:  scale.Colors(label),
		})
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"system":     ref.String(),
		"discipline": scale.Discipline(),
		"grades":     out,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAttempts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	attempts, err := h.ds.QueryAttempts(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_attempts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(attempts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSendStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	stats, err := h.ds.GetSendStats(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_send_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	summary, err := h.ds.GetTrainingSummary(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCircuits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	circuits, err := h.ds.ListCircuits(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_circuits", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(circuits)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	workouts, err := h.ds.QueryWorkouts(ctx, start, end, uid, req.GetString("type", ""))
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
