package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/coworker/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"COWORKER_RUNTIME_PATH" envDefault:".coworker"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// Bounded recent history fetched per turn
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"10"`

	// Approximate token budget for the transcript sent with history
	TranscriptTokenBudget int `env:"TRANSCRIPT_TOKEN_BUDGET" envDefault:"3000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "coworker.db")
}
