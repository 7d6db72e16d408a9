package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/api/handlers/auth"
	"github.com/vechain/walletkit/internal/api/handlers/common"
	"github.com/vechain/walletkit/internal/api/handlers/fees"
	"github.com/vechain/walletkit/internal/api/handlers/transactions"
)

// AttachAllRoutes registers every route on the server's router
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		// auth
		auth.PostConnectRoute(s),
		auth.PostDisconnectRoute(s),
		auth.PostRestoreRoute(s),
		auth.GetStatusRoute(s),
		auth.GetMethodsRoute(s),
		auth.GetEventsRoute(s),
		auth.GetCeremoniesRoute(s),
		auth.PostCeremonyCompleteRoute(s),
		auth.PostCeremonyCancelRoute(s),
		auth.PostApprovalRoute(s),

		// transactions
		transactions.PostSendRoute(s),
		transactions.GetTransactionRoute(s),
		transactions.GetSignerRoute(s),

		// fees
		fees.PostEstimateRoute(s),
		fees.GetPreferencesRoute(s),
		fees.PutPreferencesRoute(s),

		// management
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		common.GetMetricsRoute(s),
	}
}
