package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/mapping"
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
// formula is used when a tool call does not name one.
func New(ds DataSource, muscles *mapping.Store, formula analysis.Formula, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("liftlog workout log server. Query training statistics, personal records, weekly volume, per-muscle volume and estimated one-rep maxes. Weights are in kilograms. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, muscles: muscles, formula: formula, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetBasicStats, Handler: h.getBasicStats},
		server.ServerTool{Tool: toolGetExerciseStats, Handler: h.getExerciseStats},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetWeeklySummary, Handler: h.getWeeklySummary},
		server.ServerTool{Tool: toolGetBodyPartVolume, Handler: h.getBodyPartVolume},
		server.ServerTool{Tool: toolGetEstimated1RM, Handler: h.getEstimated1RM},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resMuscleGroups, Handler: h.muscleGroups},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	muscles *mapping.Store
	formula analysis.Formula
	log     *slog.Logger
}

// --- Resource definitions ---

var resMuscleGroups = mcp.NewResource(
	"liftlog://muscle_groups",
	"Muscle Groups",
	mcp.WithResourceDescription("Every primary muscle group known to the exercise catalog or the user's mapping overlay"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"liftlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Built-in exercises with primary and secondary muscles, kind, difficulty and equipment, plus the user's overlay rows"),
	mcp.WithMIMEType("application/json"),
)
