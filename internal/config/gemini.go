package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/coworker/pkg/log"
)

type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY,required,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// Provider selector kept as a seam for alternative backends
	Provider string `env:"MODEL_PROVIDER" envDefault:"gemini"`
}

func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config")
	}
	return c
}
