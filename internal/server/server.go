package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/hevysync"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/ingest/hevy"
	"github.com/meltforce/liftlog/internal/mapping"
	liftmcp "github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// EntryStore is the persistence the HTTP API needs. *storage.DB implements it.
type EntryStore interface {
	ingest.EntryWriter
	QueryEntries(ctx context.Context, f storage.EntryFilter) ([]models.WorkoutEntry, error)
	ListExercises(ctx context.Context, userID int) ([]string, error)
	DeleteImport(ctx context.Context, userID int, importID uuid.UUID) (int64, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
}

var _ EntryStore = (*storage.DB)(nil)

// Config holds the server settings that do not come with a dependency.
type Config struct {
	APIKey  string
	Formula analysis.Formula
	Unit    models.WeightUnit
	Version string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       EntryStore
	hevy     *hevy.Provider
	alpha    *alpha.Provider
	syncer   *hevysync.Syncer
	mappings *mapping.Store
	cfg      Config
	log      *slog.Logger
	tailnet  func(http.Handler) http.Handler
	mcp      http.Handler
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db EntryStore, hevyProvider *hevy.Provider, alphaProvider *alpha.Provider, mappings *mapping.Store, cfg Config, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		hevy:     hevyProvider,
		alpha:    alphaProvider,
		mappings: mappings,
		cfg:      cfg,
		log:      log,
		router:   chi.NewRouter(),
	}

	mcpSrv := liftmcp.New(db, mappings, cfg.Formula, cfg.Version, log)
	s.mcp = mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return liftmcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)

	s.routes()
	return s
}

// SetSyncer enables the remote sync endpoints.
func (s *Server) SetSyncer(syncer *hevysync.Syncer) {
	s.syncer = syncer
}

// SetTailscale switches request identity from the local dev user to the
// tailnet login of the caller.
func (s *Server) SetTailscale(who WhoIser, users UserStore) {
	s.tailnet = TailscaleIdentity(who, users, s.log)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identify)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.cfg.APIKey))
		r.Post("/api/v1/ingest/hevy", s.handleHevyIngest)
		r.Post("/api/v1/ingest/alpha", s.handleAlphaIngest)
		r.Post("/api/v1/sync", s.handleSync)
		r.Delete("/api/v1/imports/{id}", s.handleDeleteImport)
		r.Put("/api/v1/mappings/{name}", s.handleSetMapping)
		r.Delete("/api/v1/mappings/{name}", s.handleRemoveMapping)
		r.Post("/api/v1/mappings/refresh", s.handleRefreshMappings)
	})

	// Read endpoints (no auth, tsnet handles access)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/entries", s.handleQueryEntries)
	s.router.Get("/api/v1/exercises", s.handleExercises)
	s.router.Get("/api/v1/muscles", s.handleMuscles)
	s.router.Get("/api/v1/data-stats", s.handleDataStats)
	s.router.Get("/api/v1/import-logs", s.handleImportLogs)
	s.router.Get("/api/v1/sync/runs", s.handleSyncRuns)

	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/stats/exercises", s.handleExerciseStats)
	s.router.Get("/api/v1/stats/records", s.handleRecords)
	s.router.Get("/api/v1/stats/weekly", s.handleWeekly)
	s.router.Get("/api/v1/stats/body-parts", s.handleBodyPartDistribution)

	s.router.Route("/api/v1/series", func(r chi.Router) {
		r.Get("/weight", s.handleWeightSeries)
		r.Get("/1rm", s.handleEstimated1RMSeries)
		r.Get("/volume", s.handleVolumeSeries)
		r.Get("/volume/aggregated", s.handleAggregatedVolume)
		r.Get("/exercise-volume", s.handleExerciseVolume)
		r.Get("/body-parts", s.handleBodyPartVolume)
		r.Get("/body-parts/trend", s.handleBodyPartTrend)
		r.Get("/sets-per-day", s.handleSetsPerDay)
		r.Get("/reps", s.handleRepHistogram)
		r.Get("/rpe", s.handleRPESeries)
		r.Get("/histogram", s.handleHistogram)
		r.Get("/scatter", s.handleScatter)
		r.Get("/forecast", s.handleForecast)
	})

	s.router.Get("/api/v1/export/{kind}.{format}", s.handleExport)

	s.router.Get("/api/v1/mappings", s.handleListMappings)
	s.router.Get("/api/v1/mappings/{name}", s.handleGetMapping)

	s.router.Handle("/mcp", s.mcp)
}

// identify attaches the caller's identity: the tailnet login once
// SetTailscale was called, the local dev user otherwise.
func (s *Server) identify(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tailnet != nil {
			s.tailnet(next).ServeHTTP(w, r)
			return
		}
		dev.ServeHTTP(w, r)
	})
}
