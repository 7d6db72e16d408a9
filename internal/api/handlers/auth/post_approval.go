package auth

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/util"
)

// PostApprovalPayload settles a pending external-wallet approval. Connect
// approvals carry the session; sign approvals carry the signed payload.
type PostApprovalPayload struct {
	Address    string `json:"address,omitempty"`
	ChainID    string `json:"chainId,omitempty"`
	WalletName string `json:"walletName,omitempty"`
	Signed     string `json:"signed,omitempty"`
	Rejected   bool   `json:"rejected,omitempty"`
}

func (p *PostApprovalPayload) Validate() error {
	if p.Rejected {
		return nil
	}
	if p.Address == "" && p.Signed == "" {
		return errors.New("either address, signed or rejected is required")
	}
	return nil
}

func PostApprovalRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/approvals/:id", postApprovalHandler(s))
}

func postApprovalHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostApprovalPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		approvalID := c.Param("id")

		var err error
		switch {
		case body.Rejected:
			err = s.Bridge.RejectApproval(approvalID)
		case body.Signed != "":
			var signed []byte
			signed, err = hexutil.Decode(body.Signed)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "signed must be hex encoded").SetInternal(err)
			}
			err = s.Bridge.ProvideSignature(approvalID, signed)
		default:
			err = s.Bridge.ApproveConnection(approvalID, &provider.ConnectorSession{
				Address:    body.Address,
				ChainID:    body.ChainID,
				WalletName: body.WalletName,
			})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}

		log.Debug().Str("approvalId", approvalID).Bool("rejected", body.Rejected).Msg("Approval settled")

		return c.NoContent(http.StatusNoContent)
	}
}
