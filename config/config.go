// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the service.
type Config struct {
	PowensToken  string `env:"POWENS_TOKEN"`
	PowensDomain string `env:"POWENS_APP_DOMAIN"` // e.g. https://myapp-sandbox.biapi.pro
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	DataDir     string `env:"FINSYNC_DATA_DIR" envDefault:"db"`
	PromptsDir  string `env:"FINSYNC_PROMPTS_DIR" envDefault:"ai-prompts"`
	Addr        string `env:"FINSYNC_ADDR" envDefault:":3000"`
	GeminiModel string `env:"FINSYNC_GEMINI_MODEL" envDefault:"gemma-3-27b-it"`

	FetchInterval  time.Duration `env:"FINSYNC_FETCH_INTERVAL" envDefault:"6h"`
	EnrichInterval time.Duration `env:"FINSYNC_ENRICH_INTERVAL" envDefault:"1h"`
	EnrichDelay    time.Duration `env:"FINSYNC_ENRICH_DELAY" envDefault:"10s"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if cfg.FetchInterval <= 0 {
		return nil, fmt.Errorf("config error: FINSYNC_FETCH_INTERVAL must be positive, got %v", cfg.FetchInterval)
	}
	if cfg.EnrichInterval <= 0 {
		return nil, fmt.Errorf("config error: FINSYNC_ENRICH_INTERVAL must be positive, got %v", cfg.EnrichInterval)
	}
	return &cfg, nil
}

// CheckPowens returns an error when the bank aggregator cannot be reached.
func (c *Config) CheckPowens() error {
	if c.PowensDomain == "" || c.PowensToken == "" {
		return fmt.Errorf("config error: POWENS_APP_DOMAIN and POWENS_TOKEN must be set")
	}
	return nil
}

// CheckGemini returns an error when the categorization model cannot be
// reached.
func (c *Config) CheckGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY must be set")
	}
	return nil
}
