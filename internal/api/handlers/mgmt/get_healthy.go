// Package mgmt provides the unauthenticated management plane: liveness,
// readiness and prometheus metrics.
package mgmt

import (
	"context"
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/labstack/echo/v4"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// getHealthyHandler probes the same dependencies as readiness but under a
// liveness contract: orchestrators restart the process on repeated failure.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.HealthyCheckTimeout)
		defer cancel()

		if err := s.Ready(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "Not healthy.")
		}
		return c.String(http.StatusOK, "Healthy.")
	}
}
