package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
)

// GetCeremoniesResponse lists the work the frontend has to settle
type GetCeremoniesResponse struct {
	Ceremonies []*api.PendingCeremony `json:"ceremonies"`
	Approvals  []*api.PendingApproval `json:"approvals"`
}

func GetCeremoniesRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.GET("/ceremonies", getCeremoniesHandler(s))
}

func getCeremoniesHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, GetCeremoniesResponse{
			Ceremonies: s.Bridge.Ceremonies(),
			Approvals:  s.Bridge.Approvals(),
		})
	}
}
