package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// PostConnectPayload starts an authentication attempt
type PostConnectPayload struct {
	Method        string `json:"method"`
	Email         string `json:"email,omitempty"`
	OAuthProvider string `json:"oauthProvider,omitempty"`
	AppID         string `json:"appId,omitempty"`
}

func (p *PostConnectPayload) Validate() error {
	if p.Method == "" {
		return errors.New("method is required")
	}
	return nil
}

func PostConnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/connect", postConnectHandler(s))
}

// postConnectHandler long-polls while the ceremony is settled through the
// bridge routes; coalescing of concurrent calls happens in the connection
// manager.
func postConnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostConnectPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		method := types.LoginMethod(body.Method)

		conn, err := s.Auth.Connect(ctx, method, provider.InitiateParams{
			Method:        method,
			Email:         body.Email,
			OAuthProvider: body.OAuthProvider,
			AppID:         body.AppID,
		})
		if err != nil {
			log.Debug().Err(err).Str("method", body.Method).Msg("Connect failed")
			return err
		}

		return c.JSON(http.StatusOK, conn)
	}
}
