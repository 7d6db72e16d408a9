package fees

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/util"
)

func GetPreferencesRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Fees.GET("/preferences", getPreferencesHandler(s))
}

func getPreferencesHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		prefs, err := s.Auth.GasTokenPreferences(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to load gas token preferences")
			return err
		}

		return c.JSON(http.StatusOK, prefs)
	}
}
