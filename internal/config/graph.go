package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/coworker/pkg/log"
)

type GraphConfig struct {
	Endpoint string        `env:"GRAPH_ENDPOINT" envDefault:"https://graph.microsoft.com/v1.0"`
	Timeout  time.Duration `env:"GRAPH_TIMEOUT" envDefault:"30s"`
}

func NewGraphConfig(ctx context.Context) *GraphConfig {
	c := &GraphConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Graph config")
	}
	return c
}
