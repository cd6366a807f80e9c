package factory

import (
	"context"
	"fmt"

	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
	"github.com/summarizetube/summarizetube-backend/internal/providers/gemini"
	"github.com/summarizetube/summarizetube-backend/internal/providers/openai"
)

// CreateProvider creates a provider instance based on configuration
func CreateProvider(ctx context.Context, cfg config.ModelConfig) (providers.Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewProvider(ctx, cfg)
	case "openai", "openai-compatible":
		return openai.NewProvider(cfg)
	case "ollama":
		// Ollama is OpenAI-compatible
		cfg.Provider = "openai-compatible"
		return openai.NewProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider)
	}
}
