// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/soundhaven/soundhaven/internal/api"
	"github.com/soundhaven/soundhaven/internal/auth"
	"github.com/soundhaven/soundhaven/internal/catalog"
	"github.com/soundhaven/soundhaven/internal/config"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/history"
	"github.com/soundhaven/soundhaven/internal/library"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/middleware"
	"github.com/soundhaven/soundhaven/internal/playlist"
	"github.com/soundhaven/soundhaven/internal/social"
	"github.com/soundhaven/soundhaven/internal/stats"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	verifier        *auth.Verifier
	playlistService *playlist.Service
	libraryService  *library.Service
	statsService    *stats.Service
	socialService   *social.Service
	historyService  *history.Service
	catalogService  *catalog.Service
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		verifier:        auth.NewVerifier(cfg.Auth.Secret),
		playlistService: playlist.NewService(repos),
		libraryService:  library.NewService(repos),
		statsService:    stats.NewService(repos),
		socialService:   social.NewService(database, repos),
		historyService:  history.NewService(repos),
		catalogService:  catalog.NewService(repos),
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create new Gin router
	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	// Create API route group
	apiGroup := s.router.Group("/api")

	// Health stays unauthenticated for probes
	api.SetupHealthRoutes(apiGroup, s.db)

	// Everything else requires a verified caller
	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(s.verifier))

	api.SetupPlaylistRoutes(authed, s.playlistService, s.socialService)
	api.SetupLibraryRoutes(authed, s.libraryService)
	api.SetupSocialRoutes(authed, s.socialService)
	api.SetupStatsRoutes(authed, s.statsService)
	api.SetupPlayerRoutes(authed, s.historyService)
	api.SetupCatalogRoutes(authed, s.catalogService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
