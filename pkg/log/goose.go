package log

import (
	"context"

	"github.com/rs/zerolog"
)

// GooseLogger routes goose migration output through zerolog.
type GooseLogger struct {
	logger *zerolog.Logger
}

func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Fatal().Msgf(format, v...)
}

func (g *GooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Info().Msgf(format, v...)
}

// NewGooseLoggerFromCtx builds a goose logger backed by the logger in ctx.
func NewGooseLoggerFromCtx(ctx context.Context) *GooseLogger {
	return &GooseLogger{
		logger: FromCtx(ctx),
	}
}
