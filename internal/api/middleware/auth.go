package middleware

import (
	"strings"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// Auth resolves the bearer token to a live session and attaches it to the
// request context. Requests without a live session are rejected.
func Auth(s *api.Server) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return httperrors.ErrUnauthorized
			}

			sess, err := s.Auth.Authenticate(c.Request().Context(), strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return httperrors.ErrUnauthorized
			}

			ctx := auth.WithSession(c.Request().Context(), sess)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
