package fees

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/util"
)

func PutPreferencesRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Fees.PUT("/preferences", putPreferencesHandler(s))
}

func putPreferencesHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body feedelegation.Preferences
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Auth.SaveGasTokenPreferences(ctx, body); err != nil {
			log.Debug().Err(err).Msg("Failed to save gas token preferences")
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}

		return c.JSON(http.StatusOK, body)
	}
}
