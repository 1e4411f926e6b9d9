package ergopay

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostResultRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1ErgoPay.POST("/result/:key", postResultHandler(s))
}

// postResultHandler records the transaction id the wallet reports after
// signing and submitting. Pollers of the same key observe DONE afterwards.
func postResultHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var params types.PaymentKeyParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		var body types.PostErgoPayResultPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Broker.ReportResult(ctx, params.Key, *body.TxID); err != nil {
			switch {
			case errors.Is(err, payload.ErrExpiredHandle):
				return httperrors.ErrExpiredHandle
			case errors.Is(err, payload.ErrNotFound):
				return echo.ErrNotFound
			default:
				return err
			}
		}

		s.Metrics.ResultsReported.Inc()
		return c.NoContent(http.StatusNoContent)
	}
}
