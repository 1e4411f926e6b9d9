package payments

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func GetResultRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Payments.GET("/result/:key", getResultHandler(s))
}

// getResultHandler is the browser-side poll of a remote signing request.
// Clients call it at a fixed cadence until the state is DONE or the handle
// expires.
func getResultHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var params types.PaymentKeyParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		res, err := s.Broker.Result(ctx, params.Key)
		if err != nil {
			switch {
			case errors.Is(err, payload.ErrExpiredHandle):
				return httperrors.ErrExpiredHandle
			case errors.Is(err, payload.ErrNotFound):
				return echo.ErrNotFound
			default:
				return err
			}
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.ResultResponse{
			State: swag.String(string(res.State)),
			TxID:  res.TxID,
		})
	}
}
