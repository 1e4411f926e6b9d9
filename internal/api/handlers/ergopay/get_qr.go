package ergopay

import (
	"fmt"
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

func GetQRRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1ErgoPay.GET("/qr/:key", getQRHandler(s))
}

// getQRHandler renders the deep link for a published signing request as a
// PNG so a desktop browser can show it to a phone wallet.
func getQRHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var params types.PaymentKeyParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		// Only render codes for keys that still resolve.
		if _, err := s.Payloads.Get(ctx, params.Key); err != nil {
			switch {
			case errors.Is(err, payload.ErrExpiredHandle):
				return httperrors.ErrExpiredHandle
			case errors.Is(err, payload.ErrNotFound):
				return echo.ErrNotFound
			default:
				return err
			}
		}

		uri := fmt.Sprintf("%s/api/v1/ergopay/reduced/%s/%s", s.Config.Signing.DeepLinkBase, params.Key, signing.AddressPlaceholder)

		png, err := qrcode.Encode(uri, qrcode.Medium, s.Config.Signing.QRSize)
		if err != nil {
			return errors.Wrap(err, "failed to render qr code")
		}
		return c.Blob(http.StatusOK, "image/png", png)
	}
}
