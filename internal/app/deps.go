package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"marmar/internal/config"
	"marmar/internal/interaction"
	"marmar/internal/llm"
	"marmar/internal/logger"
	"marmar/internal/web"
)

// Deps bundles the runtime dependencies of the web service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Checker  *interaction.Checker
	Renderer *web.Renderer
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize renderer: %w", err)
	}
	return NewDeps(cfg, log, llmClient, renderer), nil
}

// NewDeps assembles Deps from already-built parts.
func NewDeps(cfg config.Config, log *slog.Logger, client llm.Client, renderer *web.Renderer) Deps {
	return Deps{
		Config:   cfg,
		Log:      log,
		Checker:  interaction.NewChecker(client, log),
		Renderer: renderer,
	}
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	var baseURL string
	switch cfg.LLMProvider {
	case "ai71":
		baseURL = llm.AI71BaseURL
	case "openai":
		// SDK default endpoint
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: ai71, openai)", cfg.LLMProvider)
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	apiKey := cfg.ProviderAPIKey()
	if apiKey == "" {
		log.Warn("LLM_API_KEY (or AI71_API_KEY) is not set; interaction checks will fail until it is configured")
	}
	client, err := llm.NewOpenAIClient(apiKey, baseURL, openai.ChatModel(cfg.LLMModel))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat client: %w", err)
	}
	log.Info("using chat completion client", "provider", cfg.LLMProvider, "model", cfg.LLMModel, "base_url", baseURL)
	return client, nil
}
