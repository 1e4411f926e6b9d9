package api

import (
	"database/sql"
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/identity"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/persistence"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/cruxfinance/crux-backend/internal/txbuilder"
	"github.com/dropbox/godropbox/time2"
	"github.com/redis/go-redis/v9"
)

// PROVIDERS - define here only providers that for various reasons (e.g.
// cyclic dependency) can't live in their corresponding packages or that
// wrap constructors which only accept sub-configs.

func NewDB(cfg config.Server) (*sql.DB, error) {
	return persistence.NewDB(cfg.Database)
}

func NewIdentityStore(db *sql.DB) identity.Store {
	return identity.NewPostgresStore(db)
}

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NewPayloadStore(db *sql.DB, clock time2.Clock) payload.Store {
	return payload.NewPostgresStore(db, clock)
}

func NewSessionStore(client *redis.Client) auth.SessionStore {
	return auth.NewRedisSessionStore(client)
}

func NewTokenIssuer(cfg config.Server) *auth.TokenIssuer {
	return auth.NewTokenIssuer(cfg.Auth)
}

func NewChainSource(cfg config.Server) chainstate.Source {
	return chainstate.NewNodeClient(cfg.Chain.NodeBaseURL, cfg.Chain.RequestTimeout)
}

func NewTxBuilder(source chainstate.Source, cfg config.Server) *txbuilder.Builder {
	return txbuilder.NewBuilder(source, cfg.Chain)
}

func NewSigningBroker(payloads payload.Store, cfg config.Server, clock time2.Clock) *signing.Broker {
	return signing.NewBroker(payloads, cfg.Signing, clock)
}

func NewVerifier() *ergo.Verifier {
	return ergo.NewVerifier()
}

func NewAuthService(identities identity.Store, sessions auth.SessionStore, verifier *ergo.Verifier, tokens *auth.TokenIssuer) *auth.Service {
	return auth.NewService(identities, sessions, verifier, tokens)
}
