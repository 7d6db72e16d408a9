package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
)

func GetStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.GET("/status", getStatusHandler(s))
}

func getStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.Auth.Status())
	}
}
