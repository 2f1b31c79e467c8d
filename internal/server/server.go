// Package server provides the HTTP server and routing for the stock dashboard.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/database"
	"github.com/aristath/stockdash/internal/di"
	dashboardhandlers "github.com/aristath/stockdash/internal/modules/dashboard/handlers"
	historicalhandlers "github.com/aristath/stockdash/internal/modules/historical/handlers"
	"github.com/aristath/stockdash/pkg/embedded"
)

// requestTimeout bounds every API request except the WebSocket stream
const requestTimeout = 60 * time.Second

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cacheDB        *database.DB
	cfg            *config.Config
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cacheDB:   cfg.Container.ClientDataDB,
		cfg:       cfg.Config,
		container: cfg.Container,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.Config,
			cfg.Container.ClientDataDB,
			cfg.Container.ClientDataRepo,
			cfg.Container.SessionStore,
			cfg.Container.Scheduler,
		),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		// No WriteTimeout: WebSocket connections outlive a single request.
		// API requests are bounded by the Timeout middleware instead.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Router exposes the configured router (used by tests)
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check (before SPA routing)
	s.router.Get("/health", s.handleHealth)

	dashboardHandler := dashboardhandlers.NewHandler(
		s.container.DashboardService,
		s.container.SessionStore,
		s.container.Archiver,
		s.cfg.DefaultSymbol,
		s.cfg.DefaultPeriod,
		s.log,
	)
	historicalHandler := historicalhandlers.NewHandler(s.container.Provider, s.log)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// The stream is long-lived and must stay outside the request timeout
		dashboardHandler.RegisterStreamRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			dashboardHandler.RegisterRoutes(r)
			historicalHandler.RegisterRoutes(r)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
				r.Get("/jobs", s.systemHandlers.HandleJobsStatus)
				r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			})
		})
	})

	// Serve the frontend from the embedded filesystem
	frontendFS, err := fs.Sub(embedded.Files, "frontend/dist")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		return
	}

	assetsFS, err := fs.Sub(frontendFS, "assets")
	if err != nil {
		s.log.Warn().Err(err).Msg("Frontend assets directory not found in embedded files")
	} else {
		fileServer := http.FileServer(http.FS(assetsFS))
		s.router.Handle("/assets/*", http.StripPrefix("/assets/", s.assetsHandler(fileServer)))
	}

	// Serve index.html for root and all non-API routes (SPA routing)
	s.router.Get("/", s.indexHandler(frontendFS))
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.indexHandler(frontendFS)(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// assetsHandler wraps the file server to set correct MIME types
func (s *Server) assetsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			// Fallback for common extensions
			switch ext {
			case ".js":
				contentType = "application/javascript"
			case ".css":
				contentType = "text/css"
			case ".svg":
				contentType = "image/svg+xml"
			default:
				contentType = "application/octet-stream"
			}
		}
		w.Header().Set("Content-Type", contentType)

		next.ServeHTTP(w, r)
	})
}

// indexHandler serves index.html from the embedded filesystem
func (s *Server) indexHandler(frontendFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indexFile, err := frontendFS.Open("index.html")
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to open embedded index.html")
			http.Error(w, "Frontend not available", http.StatusInternalServerError)
			return
		}
		defer indexFile.Close()

		data, err := io.ReadAll(indexFile)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to read embedded index.html")
			http.Error(w, "Frontend not available", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(data); err != nil {
			s.log.Error().Err(err).Msg("Failed to write index.html response")
		}
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
