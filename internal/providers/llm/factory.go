package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/coworker/internal/config"
	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/pkg/log"
)

// NewProvider creates the configured ModelProvider.
func NewProvider(ctx context.Context, cfg *config.GeminiConfig) (core.ModelProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting model provider")

	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
}
