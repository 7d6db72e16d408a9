package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
)

func PostCeremonyCancelRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/ceremonies/:id/cancel", postCeremonyCancelHandler(s))
}

func postCeremonyCancelHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.Bridge.CancelCeremony(c.Param("id")); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}

		return c.NoContent(http.StatusNoContent)
	}
}
