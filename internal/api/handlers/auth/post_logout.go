package auth

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/labstack/echo/v4"
)

func PostLogoutRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1AuthPriv.POST("/logout", postLogoutHandler(s))
}

// postLogoutHandler destroys the caller's session. The UI also calls this
// when the wallet capability reports it is no longer connected.
func postLogoutHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sess, err := auth.SessionFromContext(ctx)
		if err != nil {
			return httperrors.ErrUnauthorized
		}

		if err := s.Auth.Logout(ctx, sess.ID); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
