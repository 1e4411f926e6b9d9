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

func GetChallengeStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.GET("/challenge/:verification_id", getChallengeStatusHandler(s))
}

// getChallengeStatusHandler is the read-only endpoint the initiating UI
// polls (default cadence ~2s) until it observes SIGNED, after which it
// calls the login endpoint to finalize.
func getChallengeStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var params types.ChallengeIDParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		status, err := s.Auth.CheckStatus(ctx, params.VerificationID)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidChallenge) {
				return httperrors.ErrInvalidChallenge
			}
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.ChallengeStatusResponse{
			Status: swag.String(string(status)),
		})
	}
}
