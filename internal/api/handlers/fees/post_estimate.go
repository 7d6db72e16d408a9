package fees

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// PostEstimatePayload prices a clause batch under the persisted gas-token
// preferences
type PostEstimatePayload struct {
	Clauses []types.ClausePayload `json:"clauses"`
}

func PostEstimateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Fees.POST("/estimate", postEstimateHandler(s))
}

func postEstimateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostEstimatePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		clauses, err := types.ParseClauses(body.Clauses)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}

		result, err := s.Auth.EstimateFees(ctx, clauses)
		if err != nil {
			log.Debug().Err(err).Msg("Fee estimation failed")
			return err
		}

		return c.JSON(http.StatusOK, result)
	}
}
