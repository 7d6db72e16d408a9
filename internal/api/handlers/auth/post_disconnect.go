package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/util"
)

func PostDisconnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/disconnect", postDisconnectHandler(s))
}

func postDisconnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := s.Auth.Disconnect(ctx); err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Disconnect failed")
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
