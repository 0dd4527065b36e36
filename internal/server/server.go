package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sess   *session.Session
	alpha  *alpha.Provider
	ix     history.Index
	vp     chart.Viewport
	whois  WhoIser
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. Charts use the
// default viewport and the catalog collates in English until SetChart and
// SetIndex say otherwise.
func New(sess *session.Session, alphaProvider *alpha.Provider, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		sess:   sess,
		alpha:  alphaProvider,
		vp:     chart.DefaultViewport(),
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(metricsMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", metricsHandler())

	// Mutations (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/workouts", s.handleCreateWorkout)
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/api/v1/ingest/alpha", s.handleAlphaIngest)
	})

	// Read API (no auth, tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Route("/api/v1/exercises", func(r chi.Router) {
		r.Get("/", s.handleCatalog)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/summary", s.handleSummary)
		r.Get("/series", s.handleSeries)
		r.Get("/volume", s.handleVolume)
		r.Post("/parse", s.handleParseExercise)
	})
	s.router.Get("/api/v1/chart", s.handleChart)
	s.router.Get("/api/v1/chart.svg", s.handleChartSVG)
	s.router.Get("/api/v1/export.xlsx", s.handleExport)
}

// SetChart replaces the viewport used for chart endpoints.
func (s *Server) SetChart(vp chart.Viewport) {
	s.vp = vp
}

// SetIndex replaces the catalog collation settings.
func (s *Server) SetIndex(ix history.Index) {
	s.ix = ix
}

// SetTailscale enables tailnet identity lookup for request logging.
func (s *Server) SetTailscale(whois WhoIser) {
	s.whois = whois
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
