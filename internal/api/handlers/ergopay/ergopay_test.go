package ergopay_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/httperrors"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/test"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// publishPayload publishes a reduced transaction directly through the
// broker and returns its key.
func publishPayload(t *testing.T, s *api.Server) string {
	t.Helper()

	tx := &ergo.UnsignedTransaction{
		Inputs:  []ergo.Box{{BoxID: "in-0", Value: 2_100_000}},
		Outputs: []ergo.Output{{Value: 1_000_000}, {Value: 1_100_000}},
	}
	reduced, err := tx.Reduce(ergo.SigningContext{Height: 100, LastHeaderIDs: []string{"h1"}})
	require.NoError(t, err)

	handle, err := s.Broker.Publish(context.Background(), reduced)
	require.NoError(t, err)
	return handle.Key
}

func TestGetReducedTx(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		key := publishPayload(t, s)
		_, address := test.NewConnectedWallet(t, s, ergo.SignerTypeMobile)

		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/ergopay/reduced/"+key+"/"+address, nil, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		var body types.ErgoPayResponse
		test.ParseResponseAndValidate(t, res, &body)
		assert.NotEmpty(t, *body.ReducedTx)
		assert.Equal(t, address, body.Address)
	})
}

func TestGetReducedTxUnknownKey(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		_, address := test.NewConnectedWallet(t, s, ergo.SignerTypeMobile)

		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/ergopay/reduced/unknown/"+address, nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestExpiredHandleReportsGone(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		store, ok := s.Payloads.(*payload.InMemoryStore)
		require.True(t, ok)

		clock := time2.NewMockClock(time.Now())
		store.Clock = clock

		key := publishPayload(t, s)
		_, address := test.NewConnectedWallet(t, s, ergo.SignerTypeMobile)

		clock.Advance(s.Config.Signing.PayloadTTL + time.Minute)

		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/ergopay/reduced/"+key+"/"+address, nil, nil)
		require.Equal(t, http.StatusGone, res.Code, res.Body.String())

		var httpErr httperrors.HTTPError
		test.ParseResponseBody(t, res, &httpErr)
		assert.Equal(t, httperrors.TypeExpiredHandle, httpErr.Type)
	})
}

func TestPostResultValidation(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		key := publishPayload(t, s)

		res := test.PerformRequest(t, s, http.MethodPost, "/api/v1/ergopay/result/"+key, test.GenericPayload{}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		res = test.PerformRequest(t, s, http.MethodPost, "/api/v1/ergopay/result/unknown", test.GenericPayload{
			"txId": "tx-1",
		}, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)

		res = test.PerformRequest(t, s, http.MethodPost, "/api/v1/ergopay/result/"+key, test.GenericPayload{
			"txId": "tx-1",
		}, nil)
		assert.Equal(t, http.StatusNoContent, res.Code)
	})
}

func TestGetQR(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		key := publishPayload(t, s)

		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/ergopay/qr/"+key, nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "image/png", res.Header().Get("Content-Type"))
		assert.NotEmpty(t, res.Body.Bytes())

		res = test.PerformRequest(t, s, http.MethodGet, "/api/v1/ergopay/qr/unknown", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
