package auth

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func GetSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1AuthPriv.GET("/session", getSessionHandler(s))
}

func getSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sess, err := auth.SessionFromContext(ctx)
		if err != nil {
			return httperrors.ErrUnauthorized
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.SessionResponse{
			Address:    swag.String(sess.Address),
			SignerType: string(sess.SignerType),
			ExpiresAt:  strfmt.DateTime(sess.ExpiresAt),
		})
	}
}
