package common

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/walletkit/internal/api"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/metrics", getMetricsHandler(s))
}

func getMetricsHandler(s *api.Server) echo.HandlerFunc {
	handler := promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})

	return func(c echo.Context) error {
		if s.Config.Management.Secret != "" && c.QueryParam("mgmt-secret") != s.Config.Management.Secret {
			return echo.ErrUnauthorized
		}

		handler.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
