// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
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

	"github.com/starford/typegen/internal/api"
	"github.com/starford/typegen/internal/bindingservice"
	"github.com/starford/typegen/internal/cache"
	"github.com/starford/typegen/internal/generator"
	"github.com/starford/typegen/internal/mcpserver"
	"github.com/starford/typegen/internal/printer"
	"github.com/starford/typegen/internal/sse"
	"github.com/starford/typegen/internal/storage"
)

// Run starts the application with the given options. Without watch or MCP
// mode it performs a single generation pass and returns its error.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// stdout carries the MCP protocol when it is served.
	logOut := io.Writer(os.Stdout)
	if app.mcp {
		logOut = os.Stderr
	}
	if app.stdout == nil {
		app.stdout = logOut
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("artifacts_dir", cfg.Artifacts.Dir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("cache_path", cfg.Cache.Path),
		slog.String("environment", cfg.Output.Environment),
		slog.Bool("watch", app.watch),
		slog.Bool("mcp", app.mcp),
		slog.String("log_level", cfg.App.LogLevel.String()))

	artifacts, err := storage.NewFS(cfg.Artifacts.Dir)
	if err != nil {
		return fmt.Errorf("init artifacts: %w", err)
	}
	out, err := storage.EnsureFS(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("init output: %w", err)
	}

	var ledger cache.Ledger
	if cfg.Cache.Enabled() {
		if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
		db, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("init cache: %w", err)
		}
		defer db.Close()
		ledger = db
	}

	gen := generator.New(cfg.Output.Generator(), artifacts, out, ledger, logger)

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	notify := func(report *generator.Report, err error) {
		broker.PublishRunEvent(runEvent(report, err))
	}
	svc := bindingservice.NewService(gen, out, cfg.Output.Dir, notify)
	p := printer.New(app.stdout, app.verbose)

	report, err := svc.Generate(ctx, app.force)
	if err != nil {
		p.Failure(err)
		if !app.watch && !app.mcp {
			return err
		}
	} else {
		p.Report(report, cfg.Output.Dir)
	}

	if !app.watch && !app.mcp {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	if app.watch {
		g.Go(func() error {
			return gen.Watch(gCtx, cfg.Artifacts.Dir, cfg.Watch.Debounce, func(report *generator.Report, err error) {
				notify(report, err)
				if err != nil {
					p.Failure(err)
					return
				}
				p.Report(report, cfg.Output.Dir)
			})
		})
	}

	var httpServer *http.Server
	if app.watch && cfg.App.HTTP.Enabled() {
		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: newHTTPHandler(svc, cfg, broker),
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	if app.mcp {
		mcpSrv := mcpserver.New(svc, app.version)
		g.Go(func() error {
			// Closing stdin ends the session and the whole application with it.
			defer cancel()
			logger.Info("Starting MCP server on stdio")
			if err := mcpSrv.Listen(gCtx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		cancel()

		if httpServer != nil {
			logger.Info("Shutting down server...")
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelShutdown()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped successfully")
	return nil
}

func newHTTPHandler(svc *bindingservice.Service, cfg *Config, broker *sse.Broker) http.Handler {
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	return r
}

func runEvent(report *generator.Report, err error) sse.RunEvent {
	if err != nil {
		return sse.RunEvent{Error: err.Error()}
	}
	return sse.RunEvent{
		RunID:     report.Run.ID,
		Written:   report.Written,
		Deleted:   report.Deleted,
		Contracts: len(report.Contracts),
	}
}
