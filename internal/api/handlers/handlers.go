// Package handlers attaches every route of the service to the server's
// route groups. One file per route, one package per group.
package handlers

import (
	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/handlers/auth"
	"github.com/cruxfinance/crux-backend/internal/api/handlers/ergopay"
	"github.com/cruxfinance/crux-backend/internal/api/handlers/mgmt"
	"github.com/cruxfinance/crux-backend/internal/api/handlers/payments"
	"github.com/labstack/echo/v4"
)

func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		mgmt.GetHealthyRoute(s),
		mgmt.GetReadyRoute(s),
		mgmt.GetMetricsRoute(s),

		auth.PostChallengeRoute(s),
		auth.GetChallengeStatusRoute(s),
		auth.PostChallengeSignedRoute(s),
		auth.PostLoginRoute(s),
		auth.PostExternalLoginRoute(s),
		auth.PostLogoutRoute(s),
		auth.GetSessionRoute(s),

		ergopay.GetReducedTxRoute(s),
		ergopay.PostResultRoute(s),
		ergopay.GetQRRoute(s),

		payments.PostBuildRoute(s),
		payments.GetResultRoute(s),
		payments.GetConfirmationsRoute(s),
	}
}
