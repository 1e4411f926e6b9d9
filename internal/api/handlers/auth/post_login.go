package auth

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	authsvc "github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostLoginRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/login", postLoginHandler(s))
}

// postLoginHandler finalizes a SIGNED challenge: verification, nonce
// consumption and session minting happen here, in the context of the
// browser tab that initiated the login.
func postLoginHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostLoginPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		result, err := s.Auth.Finalize(ctx, swag.StringValue(body.VerificationID))
		if err != nil {
			switch {
			case errors.Is(err, authsvc.ErrInvalidChallenge):
				s.Metrics.LoginAttempts.WithLabelValues("invalid_challenge").Inc()
				return httperrors.ErrInvalidChallenge
			case errors.Is(err, authsvc.ErrSignatureInvalid):
				s.Metrics.LoginAttempts.WithLabelValues("signature_invalid").Inc()
				return httperrors.ErrSignatureInvalid
			default:
				log.Error().Err(err).Msg("Failed to finalize login")
				return err
			}
		}

		s.Metrics.LoginAttempts.WithLabelValues("success").Inc()

		return util.ValidateAndReturn(c, http.StatusOK, &types.LoginResponse{
			Token:      swag.String(result.Token),
			Address:    swag.String(result.Address),
			SignerType: string(result.SignerType),
			ValidUntil: strfmt.DateTime(result.ValidUntil),
		})
	}
}
