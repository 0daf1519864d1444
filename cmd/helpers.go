package cmd

import (
	"fmt"
	"time"

	"github.com/lpforge/lpforge/internal/config"
	"github.com/lpforge/lpforge/internal/llm"
	"github.com/lpforge/lpforge/internal/page"
)

// loadConfig loads and validates the config, providing a user-friendly
// error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `lpforge init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildEngine creates the LLM provider and generation engine from
// config. The provider is wrapped with a rate limiter when
// rate_limit_rpm is set.
func buildEngine(cfg *config.Config) (*page.Engine, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}

	return page.NewEngine(provider, page.EngineConfig{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		CallTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		MaxRetries:  cfg.MaxRetries,
	}), nil
}
