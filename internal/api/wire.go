//go:build wireinject

//go:generate wire

package api

import (
	"database/sql"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/metrics"
	"github.com/google/wire"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers required for initing a
// server.
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewRedisClient,
	NewIdentityStore,
	NewPayloadStore,
	NewSessionStore,
	NewTokenIssuer,
	NewVerifier,
	NewChainSource,
	NewTxBuilder,
	NewSigningBroker,
	NewAuthService,
	metrics.New,
	NewClock,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewDB)
	return new(Server), nil
}

// InitNewServerWithDB returns a new Server instance reusing the given DB
// pool. All other components are initialized according to the
// configuration.
func InitNewServerWithDB(
	_ config.Server,
	_ *sql.DB,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
