package payments

import (
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func GetConfirmationsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Payments.GET("/confirmations/:tx_id", getConfirmationsHandler(s))
}

// getConfirmationsHandler reports the confirmation depth of a submitted
// transaction. Unknown transactions report -1 rather than an error so
// clients can keep polling a freshly submitted id.
func getConfirmationsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var params types.TransactionIDParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		confirmations, err := s.Chain.Confirmations(ctx, params.TxID)
		if err != nil {
			if errors.Is(err, chainstate.ErrUpstreamUnavailable) {
				return httperrors.ErrUpstream
			}
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.ConfirmationsResponse{
			Confirmations: swag.Int64(confirmations),
		})
	}
}
