package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/util"
)

func PostRestoreRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/restore", postRestoreHandler(s))
}

// postRestoreHandler attempts a silent reconnection from persisted state.
// 204 when there was nothing to restore.
func postRestoreHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		conn, err := s.Auth.Restore(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Restore failed")
			return err
		}

		if conn == nil {
			return c.NoContent(http.StatusNoContent)
		}

		return c.JSON(http.StatusOK, conn)
	}
}
