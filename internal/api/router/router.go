package router

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/handlers"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/api/middleware"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Init builds the echo instance, the route groups and attaches all routes.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.Debug = false
	s.Echo.HideBanner = true
	s.Echo.HidePort = s.Config.Echo.HideInternalServer
	s.Echo.HTTPErrorHandler = errorHandler()

	s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	s.Echo.Use(echoMiddleware.Recover())
	s.Echo.Use(middleware.Logger(s.Config.Logger))
	s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "crux",
		Registerer: s.Metrics.Registry,
	}))

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORS())
	}

	s.Router = &api.Router{
		Management:    s.Echo.Group("/-"),
		APIV1Auth:     s.Echo.Group("/api/v1/auth"),
		APIV1AuthPriv: s.Echo.Group("/api/v1/auth", middleware.Auth(s)),
		APIV1ErgoPay:  s.Echo.Group("/api/v1/ergopay"),
		APIV1Payments: s.Echo.Group("/api/v1/payments", middleware.Auth(s)),
	}

	handlers.AttachAllRoutes(s)
}

// errorHandler renders every error as the public HTTPError payload.
func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var payload *httperrors.HTTPError
		switch e := err.(type) {
		case *httperrors.HTTPError:
			payload = e
		case *echo.HTTPError:
			payload = httperrors.NewFromEcho(e)
		default:
			util.LogFromEchoContext(c).Error().Err(err).Msg("Unhandled error")
			payload = httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.TypeGeneric, "Internal server error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(int(payload.Code))
			return
		}
		_ = c.JSON(int(payload.Code), payload)
	}
}
