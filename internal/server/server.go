// Package server wires the application together: it owns the router, the
// route table, and the dependency graph from database to handlers.
//
// This is the composition root — every service and handler is constructed
// here, in one place, rather than scattered across the codebase. main.go
// stays minimal: read config, build a Server, Start it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/toolshed/internal/auth"
	"github.com/sakif/toolshed/internal/handler"
	"github.com/sakif/toolshed/internal/importer"
	"github.com/sakif/toolshed/internal/middleware"
	sqliteRepo "github.com/sakif/toolshed/internal/repository/sqlite"
	"github.com/sakif/toolshed/internal/service"
)

// Config holds everything the server needs from the environment. A struct
// rather than parameters so new options don't ripple through signatures.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens. Required — the API has authenticated
	// write paths, so the server refuses to start without it.
	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	// GitHubAPIURL overrides the metrics source base URL. Empty means the
	// real GitHub API; tests point it at a local httptest server.
	GitHubAPIURL string

	// CommentDeleteAny restores the legacy any-authenticated-user comment
	// delete. Off by default: deletion requires authorship.
	CommentDeleteAny bool

	// UpdateKeyHash is the bcrypt hash guarding the score update trigger.
	// Empty leaves the trigger open.
	UpdateKeyHash string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces (the one sqlite.DB value satisfies all of them), handlers get
// services, and the router gets handlers. Handlers never touch the database;
// services never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("server: JWT secret is required")
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Used by tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes builds the services, handlers, and the route table.
//
// Middleware order matters: RequestID and RealIP annotate the request,
// Recoverer turns panics into 500s, OptionalAuth resolves a session into an
// identity when one is present (public reads keep working without one),
// then our logger records the completed request with the final status and
// the resolved user.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	requireAuth := auth.RequireAuth(tokens)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(auth.OptionalAuth(tokens))
	s.router.Use(middleware.Logger(s.logger))

	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	// One importer client serves both roles: building a project from a
	// submitted URL and re-fetching scores for the update trigger.
	ghClient := importer.NewClient(s.config.GitHubAPIURL)

	authService := service.NewAuthService(s.db, tokens, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	projectService := service.NewProjectService(s.db, ghClient, ghClient, s.logger)
	commentService := service.NewCommentService(s.db, s.config.CommentDeleteAny, s.logger)
	likeService := service.NewLikeService(s.db, s.logger)
	catalogService := service.NewCatalogService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(github, authService, s.logger)
	userHandler := handler.NewUserHandler(userService, projectService, commentService, likeService, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, auth.NewKeyService(), s.config.UpdateKeyHash, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	likeHandler := handler.NewLikeHandler(likeService, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, s.logger)

	// OAuth flow + session.
	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
		r.Post("/logout", authHandler.HandleLogout)
	})
	s.router.With(requireAuth).Get("/user", authHandler.HandleCurrentUser)

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}", userHandler.HandleGet)
		r.Get("/{id}/submissions", userHandler.HandleSubmissions)
		r.Get("/{id}/pending_submissions", userHandler.HandlePendingSubmissions)
		r.Get("/{id}/comments", userHandler.HandleComments)
		r.Get("/{id}/likes", userHandler.HandleLikes)
	})

	s.router.Route("/projects", func(r chi.Router) {
		r.Get("/", projectHandler.HandleList)
		r.With(requireAuth).Post("/", projectHandler.HandleSubmit)

		// Static segments before {id} — chi matches them first.
		r.Get("/logs", projectHandler.HandleAllLogs)
		r.Get("/update", projectHandler.HandleUpdateScores)

		r.Get("/{id}", projectHandler.HandleGet)
		r.With(requireAuth).Post("/{id}/approve", projectHandler.HandleApprove)
		r.Get("/{id}/logs", projectHandler.HandleLogs)

		r.Get("/{id}/comments", commentHandler.HandleListForProject)
		r.With(requireAuth).Post("/{id}/comments", commentHandler.HandleCreate)

		r.Get("/{id}/likes", likeHandler.HandleListForProject)
	})

	s.router.Route("/comments", func(r chi.Router) {
		r.With(requireAuth).Put("/{id}", commentHandler.HandleEdit)
		r.With(requireAuth).Delete("/{id}", commentHandler.HandleDelete)
	})

	s.router.Route("/likes", func(r chi.Router) {
		r.With(requireAuth).Post("/projects/{id}", likeHandler.HandleCreate)
		r.With(requireAuth).Delete("/{id}", likeHandler.HandleDelete)
	})

	s.router.Route("/groups", func(r chi.Router) {
		r.Get("/", catalogHandler.HandleGroups)
		r.Get("/{id}", catalogHandler.HandleGroup)
	})

	s.router.Route("/categories", func(r chi.Router) {
		r.Get("/", catalogHandler.HandleCategories)
		r.Get("/{id}", catalogHandler.HandleCategory)
	})

	return nil
}

// Start runs the HTTP server until a shutdown signal arrives, then drains
// in-flight requests and closes the database. Closing the database matters:
// it flushes the WAL and releases the file lock.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
