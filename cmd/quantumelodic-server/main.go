package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/michaelanticoli/quantumelodic/internal/bootstrap"
	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/config"
	"github.com/michaelanticoli/quantumelodic/internal/datasync"
	"github.com/michaelanticoli/quantumelodic/internal/server"
)

// shutdownTimeout bounds how long in-flight collections may delay shutdown
const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	app := bootstrap.New()
	client, closeClient, err := bootstrap.NewInferenceClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap.NewInferenceClient() > %w", err)
	}
	app.AddCloser("inference client", closeClient)

	repo, closeRepo, err := bootstrap.NewRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap.NewRepository() > %w", err)
	}
	app.AddCloser("repository", closeRepo)

	// The snapshot is loaded at startup and written back on shutdown
	if snapshotPath := os.Getenv("QUANTUMELODIC_SNAPSHOT"); snapshotPath != "" {
		count, err := datasync.Load(ctx, repo, snapshotPath)
		if err != nil {
			return fmt.Errorf("datasync.Load(%s) > %w", snapshotPath, err)
		}
		slog.Default().Info("loaded a snapshot", "path", snapshotPath, "entries", count)
		app.AddShutdownHook(func(ctx context.Context) error {
			return datasync.Save(ctx, repo, snapshotPath)
		})
	}

	s, err := server.New(
		collector.NewCollector(client, repo, cfg.Generator.RequestDelay),
		repo,
		server.Options{
			AllowedOrigins:   cfg.Server.CORS.AllowedOrigins,
			DefaultBatchSize: cfg.Generator.BatchSize,
			MarkdownTemplate: cfg.Templates.Markdown,
			Logger:           slog.Default(),
		},
	)
	if err != nil {
		return fmt.Errorf("server.New() > %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}
	app.AddShutdownHook(shutdownServer(httpServer, shutdownTimeout))

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe() > %w", err)
		}
		return nil
	})
}

// shutdownServer stops accepting requests and waits for in-flight ones up to timeout.
// Connections still open after the timeout are closed.
func shutdownServer(httpServer *http.Server, timeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		slog.Default().Info("shutting down the server", "timeout", timeout)
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			_ = httpServer.Close()
			return fmt.Errorf("httpServer.Shutdown() > %w", err)
		}
		return nil
	}
}

func loadConfig() (*config.Config, error) {
	configFile := os.Getenv("QUANTUMELODIC_CONFIG")
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
