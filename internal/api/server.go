package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docchat/internal/config"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/llm"
	"github.com/dgallion1/docchat/internal/render"
	"github.com/dgallion1/docchat/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Fetcher downloads a document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Resource, error)
}

// Server is the HTTP API server for docchat.
type Server struct {
	router   chi.Router
	sessions *session.Store
	driver   *session.Driver
	fetcher  Fetcher
	render   *render.Renderer
	log      *slog.Logger
	cfg      config.Config

	model string
	stats *llm.LLMStats
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Store, driver *session.Driver, fetcher Fetcher, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		driver:   driver,
		fetcher:  fetcher,
		render:   render.New(),
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

// WithLLMStats exposes model latency statistics on /api/stats/llm.
func (s *Server) WithLLMStats(model string, stats *llm.LLMStats) *Server {
	s.model = model
	s.stats = stats
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.DocchatAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocchatAPIKey, s.log))
		}

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/transcript", s.handleTranscript)
			r.Post("/messages", s.handleMessage)
			r.Post("/documents", s.handleUploadDocument)
			r.Post("/documents/url", s.handleFetchDocument)
			r.Post("/reset", s.handleReset)
			r.Post("/resume", s.handleResume)
			r.Delete("/", s.handleDeleteSession)
		})
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
