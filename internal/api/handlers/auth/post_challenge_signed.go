package auth

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	authsvc "github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostChallengeSignedRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/challenge/:verification_id/signed", postChallengeSignedHandler(s))
}

// postChallengeSignedHandler is the external signer's callback. It records
// the proof without verifying it; verification happens at finalization so
// failures surface to the initiating caller, not to the signer.
func postChallengeSignedHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var params types.ChallengeIDParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		var body types.PostChallengeSignedPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		err := s.Auth.ReportSigned(ctx, params.VerificationID, swag.StringValue(body.SignedMessage), swag.StringValue(body.Proof))
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidChallenge) {
				log.Debug().Str("verification_id", params.VerificationID).Msg("Signed report for non-pending challenge")
				return httperrors.ErrInvalidChallenge
			}
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
