// Package api provides the HTTP API server and handlers for the Creator Hub application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
	"github.com/creatorhubapp/creatorhub-server/internal/search"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	content  *service.ContentManager
	users    *service.UserManager
	tokens   *auth.TokenService
	search   *search.Index
	validate *validator.Validate
	router   *chi.Mux
	logger   *slog.Logger
}

// Options configures the HTTP server.
type Options struct {
	// AllowedOrigins are the CORS origins permitted to call the API.
	AllowedOrigins []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	content *service.ContentManager,
	users *service.UserManager,
	tokens *auth.TokenService,
	searchIndex *search.Index,
	opts Options,
	logger *slog.Logger,
) *Server {
	s := &Server{
		content:  content,
		users:    users,
		tokens:   tokens,
		search:   searchIndex,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware(opts)
	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the global middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// registerRoutes mounts the static route table onto the router. Routes are
// declared as data, not discovered; see routes.go.
func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	for _, rt := range s.routes() {
		handler := http.Handler(rt.handler)
		for i := len(rt.middlewares) - 1; i >= 0; i-- {
			handler = rt.middlewares[i](handler)
		}
		s.router.Method(rt.method, rt.pattern, handler)
	}
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
