package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/ingest/croxlog"
	"github.com/meltforce/cruxlog/internal/ingest/csvlog"
	"github.com/meltforce/cruxlog/internal/storage"
	"github.com/meltforce/cruxlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	croxlog   *croxlog.Provider
	csvlog    *csvlog.Provider
	resolver  *grades.Resolver
	converter *grades.Converter
	sessions  *sessionRegistry
	identity  func(http.Handler) http.Handler
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, workoutCfg workout.Config, apiKey string, log *slog.Logger) *Server {
	resolver := grades.NewResolver(db)
	s := &Server{
		db:        db,
		croxlog:   croxlog.NewProvider(db, log),
		csvlog:    csvlog.NewProvider(db, log),
		resolver:  resolver,
		converter: grades.NewConverter(resolver),
		sessions:  newSessionRegistry(resolver, workoutCfg, log),
		identity:  DevIdentity,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity resolution from the dev default to
// tailnet WhoIs lookups. Must be called before the first request.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.identity = TailscaleIdentity(lc, s.db, s.log)
}

// MountMCP exposes an MCP transport handler under /mcp. Must be called
// before the first request.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.identity(next).ServeHTTP(w, r)
		})
	})

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleIngest)
		r.Post("/csv", s.handleCSVIngest)
	})

	s.router.Get("/api/v1/me", s.handleMe)

	// Grade scales and conversion
	s.router.Get("/api/v1/scales", s.handleScales)
	s.router.Get("/api/v1/scales/{system}/grades", s.handleScaleGrades)
	s.router.Post("/api/v1/convert", s.handleConvert)

	// Routes and attempts
	s.router.Get("/api/v1/routes", s.handleQueryRoutes)
	s.router.Post("/api/v1/routes", s.handleCreateRoute)
	s.router.Get("/api/v1/routes/{id}", s.handleGetRoute)
	s.router.Get("/api/v1/routes/{id}/attempts", s.handleRouteAttempts)
	s.router.Post("/api/v1/routes/{id}/attempts", s.handleLogAttempt)

	// Circuits
	s.router.Get("/api/v1/circuits", s.handleListCircuits)
	s.router.Post("/api/v1/circuits", s.handleSaveCircuit)
	s.router.Put("/api/v1/circuits/{id}", s.handleUpdateCircuit)
	s.router.Delete("/api/v1/circuits/{id}", s.handleDeleteCircuit)

	// Workout sessions
	s.router.Post("/api/v1/workouts/start", s.handleWorkoutStart)
	s.router.Post("/api/v1/workouts/pause", s.handleWorkoutPause)
	s.router.Post("/api/v1/workouts/resume", s.handleWorkoutResume)
	s.router.Post("/api/v1/workouts/attempt", s.handleWorkoutAttempt)
	s.router.Post("/api/v1/workouts/end", s.handleWorkoutEnd)
	s.router.Post("/api/v1/workouts/cancel", s.handleWorkoutCancel)
	s.router.Get("/api/v1/workouts/active", s.handleWorkoutActive)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)

	// Stats
	s.router.Get("/api/v1/stats/sends", s.handleSendStats)
	s.router.Get("/api/v1/stats/summary", s.handleTrainingSummary)
	s.router.Get("/api/v1/imports", s.handleImportLogs)
}
