package transactions

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/util"
)

func GetTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Txs.GET("/:id", getTransactionHandler(s))
}

// getTransactionHandler waits for the receipt of a submitted transaction.
// 404 while unconfirmed.
func getTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		txID := c.Param("id")
		if txID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "transaction id is required")
		}

		receipt, err := s.Thor.WaitForReceipt(ctx, txID)
		if err != nil {
			if errors.Is(err, thor.ErrTxNotConfirmed) {
				return echo.NewHTTPError(http.StatusNotFound, "transaction not confirmed yet")
			}
			log.Debug().Err(err).Str("txId", txID).Msg("Receipt lookup failed")
			return err
		}

		return c.JSON(http.StatusOK, receipt)
	}
}
