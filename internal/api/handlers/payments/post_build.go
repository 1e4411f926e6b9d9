// Package payments exposes the authenticated payment surface: building
// reduced transactions from the session holder's unspent boxes, polling
// remote signing results and checking confirmation depth.
package payments

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/txbuilder"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostBuildRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Payments.POST("/build", postBuildHandler(s))
}

func postBuildHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		sess, err := auth.SessionFromContext(ctx)
		if err != nil {
			return httperrors.ErrUnauthorized
		}

		var body types.PostBuildPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		transfers := make([]txbuilder.Transfer, 0, len(body.Transfers))
		for _, t := range body.Transfers {
			transfers = append(transfers, txbuilder.Transfer{
				TokenID: t.TokenID,
				Amount:  *t.Amount,
			})
		}

		start := time.Now()
		reduced, err := s.Builder.Build(ctx, sess.Address, *body.RecipientAddress, transfers)
		s.Metrics.TxBuildDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			var insufficient *ergo.InsufficientFundsError
			switch {
			case errors.As(err, &insufficient):
				s.Metrics.TxBuilds.WithLabelValues("insufficient_funds").Inc()
				return httperrors.NewHTTPErrorWithDetail(http.StatusUnprocessableEntity,
					httperrors.TypeInsufficientFunds,
					"Sender does not hold enough value for the requested transfers.",
					insufficient.Error())
			case errors.Is(err, txbuilder.ErrAmountOverflow):
				s.Metrics.TxBuilds.WithLabelValues("invalid_request").Inc()
				return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest,
					httperrors.TypeGeneric,
					"Transfer amounts are out of range.",
					err.Error())
			case errors.Is(err, chainstate.ErrUpstreamUnavailable):
				s.Metrics.TxBuilds.WithLabelValues("upstream_unavailable").Inc()
				return httperrors.ErrUpstream
			default:
				s.Metrics.TxBuilds.WithLabelValues("error").Inc()
				log.Error().Err(err).Msg("Failed to build transaction")
				return err
			}
		}
		s.Metrics.TxBuilds.WithLabelValues("success").Inc()

		signingRequest := &types.SigningRequestResponse{}
		if body.Remote {
			handle, err := s.Broker.Publish(ctx, reduced)
			if err != nil {
				log.Error().Err(err).Msg("Failed to publish reduced transaction")
				return err
			}
			s.Metrics.PayloadsPublished.Inc()
			signingRequest.Handle = handle.Key
			signingRequest.URI = handle.URI
			signingRequest.ExpiresAt = strfmt.DateTime(handle.ExpiresAt)
		} else {
			signingRequest.ReducedTx = base64.StdEncoding.EncodeToString(reduced.Bytes)
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.BuildResponse{
			TxID:           swag.String(reduced.ID),
			SigningRequest: signingRequest,
		})
	}
}
