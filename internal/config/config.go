package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	// Server
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// LLM
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"ai71"` // "ai71" or "openai"
	APIKey      string `env:"LLM_API_KEY"`                    // key for whichever provider is selected
	AI71APIKey  string `env:"AI71_API_KEY"`                   // accepted when LLM_API_KEY is unset
	BaseURL     string `env:"LLM_BASE_URL"`                   // empty means the provider default
	LLMModel    string `env:"LLM_MODEL" envDefault:"tiiuae/falcon-180B-chat"`
}

// ProviderAPIKey returns LLM_API_KEY, falling back to AI71_API_KEY.
func (c Config) ProviderAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.AI71APIKey
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
