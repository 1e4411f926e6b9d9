package auth

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostExternalLoginRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/external", postExternalLoginHandler(s))
}

// postExternalLoginHandler is the session handoff boundary for the other
// login entry point: a token issued there is adopted under the same session
// representation instead of minting a second one.
func postExternalLoginHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostExternalLoginPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		result, err := s.Auth.Adopt(ctx, swag.StringValue(body.Token))
		if err != nil {
			return httperrors.ErrUnauthorized
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.LoginResponse{
			Token:      swag.String(result.Token),
			Address:    swag.String(result.Address),
			SignerType: string(result.SignerType),
			ValidUntil: strfmt.DateTime(result.ValidUntil),
		})
	}
}
