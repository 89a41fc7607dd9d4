package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/coworker/pkg/log"
)

type ServerConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
}

func NewServerConfig(ctx context.Context) *ServerConfig {
	c := &ServerConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Server config")
	}
	return c
}
