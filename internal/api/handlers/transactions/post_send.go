package transactions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/auth"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// PostSendPayload signs and submits a clause batch through the active
// connection
type PostSendPayload struct {
	Clauses  []types.ClausePayload `json:"clauses"`
	GasToken string                `json:"gasToken,omitempty"`
}

func PostSendRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Txs.POST("/send", postSendHandler(s))
}

func postSendHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostSendPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		clauses, err := types.ParseClauses(body.Clauses)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}

		result, err := s.Auth.Send(ctx, auth.SendRequest{
			Clauses:  clauses,
			GasToken: feedelegation.GasToken(body.GasToken),
		})
		if err != nil {
			log.Debug().Err(err).Msg("Transaction send failed")
			return err
		}

		return c.JSON(http.StatusOK, result)
	}
}
