// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/gebo/internal/api"
	"github.com/starford/gebo/internal/export"
	"github.com/starford/gebo/internal/graph"
	"github.com/starford/gebo/internal/pipeline"
	"github.com/starford/gebo/internal/storage"
)

// NewLogger builds the structured JSON logger and installs it as default.
func NewLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// BuildAndExport runs the pipeline over the configured vault and writes the
// CSV tables to the configured output directory. The vault path may also
// point at a single Markdown file, in which case only that file is parsed.
func BuildAndExport(ctx context.Context, cfg *Config, logger *slog.Logger) (*graph.Graph, export.Paths, error) {
	info, err := os.Stat(cfg.Vault.Path)
	if err != nil {
		return nil, export.Paths{}, fmt.Errorf("stat vault path: %w", err)
	}

	var g *graph.Graph
	if info.IsDir() {
		store, err := storage.NewFS(cfg.Vault.Path)
		if err != nil {
			return nil, export.Paths{}, err
		}
		g, err = pipeline.Build(ctx, store, logger, pipeline.Options{
			Workers: cfg.Vault.Workers,
			Exclude: cfg.Vault.Exclude,
		})
		if err != nil {
			return nil, export.Paths{}, err
		}
	} else {
		store, err := storage.NewFS(filepath.Dir(cfg.Vault.Path))
		if err != nil {
			return nil, export.Paths{}, err
		}
		g, err = pipeline.BuildFile(store, filepath.Base(cfg.Vault.Path))
		if err != nil {
			return nil, export.Paths{}, err
		}
	}
	paths, err := export.Write(g, cfg.Output.Dir, cfg.Output.NodesFile, cfg.Output.EdgesFile)
	if err != nil {
		return nil, export.Paths{}, err
	}
	return g, paths, nil
}

// Run starts serve mode: an initial build and export, a read-only graph API,
// and a vault watcher that rebuilds on change.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := NewLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initial build.
	g, paths, err := BuildAndExport(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initial build: %w", err)
	}
	stats := g.Stats()
	logger.Info("Graph built",
		slog.Int("nodes", stats.Nodes),
		slog.Int("edges", stats.Edges),
		slog.String("nodes_csv", paths.Nodes),
		slog.String("edges_csv", paths.Edges))

	svc := api.NewService(g)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g2, gCtx := errgroup.WithContext(runCtx)

	// Vault watcher: any settled change triggers a full rebuild and re-export.
	g2.Go(func() error {
		return pipeline.Watch(gCtx, store.Root(), logger, func() {
			rebuilt, rebuiltPaths, buildErr := BuildAndExport(gCtx, cfg, logger)
			if buildErr != nil {
				logger.Error("rebuild failed", slog.String("error", buildErr.Error()))
				return
			}
			svc.Set(rebuilt)
			s := rebuilt.Stats()
			logger.Info("Graph rebuilt",
				slog.Int("nodes", s.Nodes),
				slog.Int("edges", s.Edges),
				slog.String("nodes_csv", rebuiltPaths.Nodes))
		})
	})

	g2.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g2.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		cancelRun()

		return nil
	})

	if err := g2.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
