package transactions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/api/httperrors"
	"github.com/vechain/walletkit/internal/util"
)

// GetSignerResponse reports the address transactions act for
type GetSignerResponse struct {
	Address string `json:"address"`
}

func GetSignerRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Txs.GET("/signer", getSignerHandler(s))
}

// getSignerHandler resolves the signer for the active connection: the
// wallet address for direct connections, the smart-account address for
// embedded and cross-app ones
func getSignerHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sig, err := s.Auth.Signer(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Signer resolution failed")
			return httperrors.ErrNotFoundNoConnection
		}

		return c.JSON(http.StatusOK, GetSignerResponse{Address: sig.Address().Hex()})
	}
}
