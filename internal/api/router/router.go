package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/api/handlers"
	"github.com/vechain/walletkit/internal/api/middleware"
)

// Init builds the echo instance, attaches middleware per configuration and
// registers all routes
func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HTTPErrorHandler = HTTPErrorHandler(s)

	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level: s.Config.Logger.RequestLevel,
		}))
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORS())
	}

	s.Router = &api.Router{
		Routes: nil, // filled by handlers.AttachAllRoutes

		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1Auth:  s.Echo.Group("/api/v1/auth"),
		APIV1Txs:   s.Echo.Group("/api/v1/transactions"),
		APIV1Fees:  s.Echo.Group("/api/v1/fees"),
	}

	handlers.AttachAllRoutes(s)
}

// HTTPErrorHandler is split out so tests can exercise the mapping directly
func HTTPErrorHandler(s *api.Server) echo.HTTPErrorHandler {
	return api.HTTPErrorHandlerWithConfig(s.Config.Echo.HideInternalServerErrorDetails)
}
