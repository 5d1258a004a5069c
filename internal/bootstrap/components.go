package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/michaelanticoli/quantumelodic/internal/config"
	"github.com/michaelanticoli/quantumelodic/internal/database"
	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"github.com/michaelanticoli/quantumelodic/internal/inference/gemini"
	"github.com/michaelanticoli/quantumelodic/internal/inference/openai"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

// NewInferenceClient builds the client of the configured provider and a function releasing it.
// The client is wrapped by the reply cache when cache.directory is set.
func NewInferenceClient(ctx context.Context, cfg *config.Config) (inference.Client, func() error, error) {
	mode, err := inference.ParseOutputMode(cfg.Generator.OutputMode)
	if err != nil {
		return nil, nil, err
	}

	var client inference.Client
	var model string
	closeFn := func() error { return nil }
	switch cfg.Generator.Provider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, mode, cfg.Generator.MaxRetryAttempts)
		client = openaiClient
		model = openaiClient.GetModel()
		closeFn = openaiClient.Close
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, "", mode, cfg.Generator.MaxRetryAttempts)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini.NewClient() > %w", err)
		}
		client = geminiClient
		model = geminiClient.GetModel()
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", cfg.Generator.Provider)
	}
	slog.Default().Debug("created an inference client",
		"provider", cfg.Generator.Provider,
		"model", model,
		"output_mode", mode,
	)

	if cfg.Cache.Directory == "" {
		return client, closeFn, nil
	}
	cached, err := inference.NewCachingClient(client, cfg.Cache.Directory)
	if err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("inference.NewCachingClient(%s) > %w", cfg.Cache.Directory, err)
	}
	return cached, closeFn, nil
}

// NewRepository builds the configured knowledge repository and a function releasing it.
// The mysql driver pings the server before returning.
func NewRepository(ctx context.Context, cfg *config.Config) (knowledge.Repository, func() error, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return knowledge.NewMemoryRepository(), func() error { return nil }, nil
	case "mysql":
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Connect() > %w", err)
		}
		return knowledge.NewDBRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
