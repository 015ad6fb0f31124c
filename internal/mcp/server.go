package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/cruxlog/internal/grades"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("cruxlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("cruxlog climbing log server. Query routes, attempts, send statistics, training summaries, and workouts, and convert grades between scales. All data is scoped to the authenticated user."),
	)

	resolver := grades.NewResolver(ds)
	h := &handlers{
		ds:        ds,
		resolver:  resolver,
		converter: grades.NewConverter(resolver),
		log:       log,
	}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolConvertGrade, Handler: h.convertGrade},
		server.ServerTool{Tool: toolListGradeScales, Handler: h.listGradeScales},
		server.ServerTool{Tool: toolGetGrades, Handler: h.getGrades},
		server.ServerTool{Tool: toolGetAttempts, Handler: h.getAttempts},
		server.ServerTool{Tool: toolGetSendStats, Handler: h.getSendStats},
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
		server.ServerTool{Tool: toolGetCircuits, Handler: h.getCircuits},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resScaleCatalog, Handler: h.scaleCatalog},
		server.ServerResource{Resource: resRecentAttempts, Handler: h.recentAttempts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	resolver  *grades.Resolver
	converter *grades.Converter
	log       *slog.Logger
}

// --- Resource definitions ---

var resScaleCatalog = mcp.NewResource(
	"cruxlog://scale_catalog",
	"Grade Scale Catalog",
	mcp.WithResourceDescription("All built-in grade scales with their disciplines and full grade listings"),
	mcp.WithMIMEType("application/json"),
)

var resRecentAttempts = mcp.NewResource(
	"cruxlog://recent_attempts",
	"Recent Attempts",
	mcp.WithResourceDescription("Attempts from the last 14 days with their routes"),
	mcp.WithMIMEType("application/json"),
)
