package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/types"
)

// GetMethodsResponse lists the usable login methods and, when cross-app
// login is enabled, the known partner applications
type GetMethodsResponse struct {
	Methods []types.LoginMethod     `json:"methods"`
	Apps    []provider.EcosystemApp `json:"apps,omitempty"`
}

func GetMethodsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.GET("/methods", getMethodsHandler(s))
}

func getMethodsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := GetMethodsResponse{
			Methods: s.Auth.AvailableMethods(),
		}

		if crossApp, ok := s.Connection.ProviderFor(types.LoginMethodEcosystem).(*provider.CrossAppProvider); ok {
			response.Apps = crossApp.KnownApps()
		}

		return c.JSON(http.StatusOK, response)
	}
}
