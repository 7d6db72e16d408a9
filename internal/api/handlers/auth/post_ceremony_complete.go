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

// PostCeremonyCompletePayload is the outcome the wallet service released
// to the frontend
type PostCeremonyCompletePayload struct {
	Secret    string                 `json:"secret"`
	UserID    string                 `json:"userId"`
	SessionID string                 `json:"sessionId"`
	Email     string                 `json:"email,omitempty"`
	App       *provider.EcosystemApp `json:"app,omitempty"`
}

func (p *PostCeremonyCompletePayload) Validate() error {
	if p.Secret == "" {
		return errors.New("secret is required")
	}
	if p.UserID == "" {
		return errors.New("userId is required")
	}
	return nil
}

func PostCeremonyCompleteRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/ceremonies/:id/complete", postCeremonyCompleteHandler(s))
}

func postCeremonyCompleteHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostCeremonyCompletePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		secret, err := hexutil.Decode(body.Secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "secret must be hex encoded").SetInternal(err)
		}

		ceremonyID := c.Param("id")
		if err := s.Bridge.CompleteCeremony(ceremonyID, &provider.CeremonyOutcome{
			Secret:    secret,
			UserID:    body.UserID,
			SessionID: body.SessionID,
			Email:     body.Email,
			App:       body.App,
		}); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}

		log.Debug().Str("ceremonyId", ceremonyID).Msg("Ceremony completed")

		return c.NoContent(http.StatusNoContent)
	}
}
