// Package app constructs the long-lived handles once per process and tears
// them down on shutdown.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core"
	"github.com/agenthands/medwise/internal/core/schema"
	"github.com/agenthands/medwise/internal/driver"
	"github.com/agenthands/medwise/internal/llm"
	"github.com/agenthands/medwise/internal/logging"
	"github.com/agenthands/medwise/internal/metrics"
)

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	MedWise *core.MedWise

	llmClient llm.LLMClient
}

// LoadConfig reads .env (when present) and the TOML config at CONFIG_PATH,
// defaulting to config/config.toml.
func LoadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	reg, err := schema.Default()
	if err != nil {
		return nil, err
	}

	d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database, logger)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		_ = d.Close(ctx)
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	logger.Info("LLM client ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.String("schema_version", reg.Version()))

	m := metrics.New()
	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		MedWise: core.NewMedWise(d, llmClient, reg, cfg, m, logger),

		llmClient: llmClient,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	err := a.MedWise.Close(ctx)
	if c, ok := a.llmClient.(io.Closer); ok {
		_ = c.Close()
	}
	_ = a.Logger.Sync()
	return err
}
