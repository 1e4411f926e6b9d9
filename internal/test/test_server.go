// Package test provides helpers for spinning up a fully wired server with
// in-memory backing stores and driving HTTP requests against it.
package test

import (
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/router"
	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/identity"
	"github.com/cruxfinance/crux-backend/internal/metrics"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/cruxfinance/crux-backend/internal/txbuilder"
	"github.com/dropbox/godropbox/time2"
	"github.com/rs/zerolog"
)

// TestHeight is the chain height served by the test chain source.
const TestHeight uint32 = 1_234_567

// DefaultTestServerConfig is the environment config with everything slow or
// external pinned to test-friendly values.
func DefaultTestServerConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Auth.JWTSecret = "test-jwt-secret-not-for-production"
	cfg.Auth.ChallengePollEvery = 10 * time.Millisecond
	cfg.Auth.ChallengePollMax = 10
	cfg.Signing.PaymentPollEvery = 10 * time.Millisecond
	cfg.Signing.PaymentPollMax = 10
	cfg.Chain.NetworkPrefix = ergo.MainnetPrefix
	cfg.Logger.Level = zerolog.WarnLevel

	return cfg
}

// WithTestServer runs closure against a server wired from in-memory stores
// and a static chain source. No database, redis or node is needed.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, DefaultTestServerConfig(), closure)
}

// WithTestServerConfigurable is WithTestServer with a caller-owned config.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	identities := identity.NewInMemoryStore()
	payloads := payload.NewInMemoryStore()
	sessions := auth.NewInMemorySessionStore()
	chain := chainstate.NewStaticSource(TestHeight, []chainstate.Header{
		{ID: "a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0", Height: TestHeight - 1},
		{ID: "b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1", Height: TestHeight},
	})

	tokens := auth.NewTokenIssuer(cfg.Auth)
	verifier := ergo.NewVerifier()
	authService := auth.NewService(identities, sessions, verifier, tokens)
	builder := txbuilder.NewBuilder(chain, cfg.Chain)
	broker := signing.NewBroker(payloads, cfg.Signing, time2.DefaultClock)

	s := api.NewTestServer(cfg, metrics.New(), identities, payloads, sessions, authService, chain, builder, broker)
	router.Init(s)

	closure(s)
}

// ChainSource returns the scriptable chain source behind a test server.
func ChainSource(t *testing.T, s *api.Server) *chainstate.StaticSource {
	t.Helper()
	source, ok := s.Chain.(*chainstate.StaticSource)
	if !ok {
		t.Fatalf("server chain source is %T, not a static source", s.Chain)
	}
	return source
}
