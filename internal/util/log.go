package util

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CTXKeyLogger is the context key holding the request-scoped logger.
type contextKey string

const CTXKeyLogger contextKey = "logger"

// LogFromContext returns a request-scoped zerolog logger if one was previously
// attached via WithLogger, otherwise the global logger.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l, ok := ctx.Value(CTXKeyLogger).(*zerolog.Logger)
	if !ok || l == nil {
		return &log.Logger
	}
	return l
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, CTXKeyLogger, &l)
}

// LogFromEchoContext returns the logger attached to an echo request context.
func LogFromEchoContext(c echo.Context) *zerolog.Logger {
	return LogFromContext(c.Request().Context())
}
