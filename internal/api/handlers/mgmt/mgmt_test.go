package mgmt_test

import (
	"net/http"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagementEndpoints(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/-/healthy", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		res = test.PerformRequest(t, s, http.MethodGet, "/-/ready", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		s.Metrics.ChallengesIssued.Inc()

		res := test.PerformRequest(t, s, http.MethodGet, "/-/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "crux_challenges_issued_total")
	})
}

func TestMetricsCoverHTTPRequests(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = test.PerformRequest(t, s, http.MethodGet, "/-/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "crux_requests_total")
	})
}
