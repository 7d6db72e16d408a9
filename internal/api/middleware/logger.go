package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vechain/walletkit/internal/util"
)

// LoggerConfig controls request logging verbosity
type LoggerConfig struct {
	Level zerolog.Level
}

// LoggerWithConfig attaches a request-scoped zerolog logger to the request
// context and logs request completion at the configured level
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestLog := log.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("requestId", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()

			c.SetRequest(req.WithContext(util.WithLogger(req.Context(), requestLog)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response first
				c.Error(err)
			}

			requestLog.WithLevel(config.Level).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("Request handled")

			return nil
		}
	}
}
