// Package ergopay implements the wallet-facing callback surface of the
// ErgoPay protocol: resolving a published reduced transaction and reporting
// the resulting transaction id. These routes are unauthenticated because the
// wallet device never holds a session; the opaque payload key is the
// capability.
package ergopay

import (
	"encoding/base64"
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

func GetReducedTxRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1ErgoPay.GET("/reduced/:key/:address", getReducedTxHandler(s))
}

func getReducedTxHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var params types.ErgoPayReducedParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		raw, err := s.Broker.Reduced(ctx, params.Key)
		if err != nil {
			switch {
			case errors.Is(err, payload.ErrExpiredHandle):
				return httperrors.ErrExpiredHandle
			case errors.Is(err, payload.ErrNotFound):
				return echo.ErrNotFound
			default:
				log.Error().Err(err).Str("key", params.Key).Msg("Failed to resolve reduced transaction")
				return err
			}
		}

		log.Debug().Str("key", params.Key).Str("address", params.Address).Msg("Wallet fetched reduced transaction")

		return util.ValidateAndReturn(c, http.StatusOK, &types.ErgoPayResponse{
			ReducedTx:       swag.String(base64.StdEncoding.EncodeToString(raw)),
			Address:         params.Address,
			Message:         "Sign the requested transaction with your wallet.",
			MessageSeverity: "INFORMATION",
		})
	}
}
