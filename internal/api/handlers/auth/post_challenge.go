package auth

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostChallengeRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/challenge", postChallengeHandler(s))
}

// postChallengeHandler opens a login challenge: any prior live challenge
// for the address is superseded and a fresh nonce issued.
func postChallengeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostChallengePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		address := swag.StringValue(body.Address)
		signer := ergo.SignerType(swag.StringValue(body.SignerType))

		verificationID, nonce, err := s.Auth.Start(ctx, address, signer)
		if err != nil {
			log.Debug().Err(err).Str("address", address).Msg("Failed to start challenge")
			return httperrors.NewHTTPError(http.StatusBadRequest, httperrors.TypeGeneric, "Invalid address or signer type")
		}

		s.Metrics.ChallengesIssued.Inc()

		response := &types.ChallengeResponse{
			VerificationID: swag.String(verificationID),
			Nonce:          swag.String(nonce),
		}
		if signer == ergo.SignerTypeMobile {
			// A remote wallet learns the challenge callback from the
			// deep link; the local extension is handed the nonce directly.
			response.SigningRequest = &types.SigningRequestResponse{
				Handle: verificationID,
				URI:    s.Broker.ChallengeURI(verificationID),
			}
		}
		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
