package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/identity"
	"github.com/cruxfinance/crux-backend/internal/metrics"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/cruxfinance/crux-backend/internal/txbuilder"
	"github.com/dlmiddlecote/sqlstats"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Router groups the echo route surface. Routes are attached by the router
// package after the server components exist.
type Router struct {
	Routes []*echo.Route

	Management    *echo.Group
	APIV1Auth     *echo.Group
	APIV1AuthPriv *echo.Group
	APIV1ErgoPay  *echo.Group
	APIV1Payments *echo.Group
}

// Server bundles every component of the service. Handlers only ever reach
// collaborators through this struct.
type Server struct {
	Config config.Server
	DB     *sql.DB
	Redis  *redis.Client
	Echo   *echo.Echo
	Router *Router

	Metrics    *metrics.Metrics
	Identities identity.Store
	Payloads   payload.Store
	Sessions   auth.SessionStore
	Auth       *auth.Service
	Chain      chainstate.Source
	Builder    *txbuilder.Builder
	Broker     *signing.Broker
}

func newServerWithComponents(
	cfg config.Server,
	db *sql.DB,
	redisClient *redis.Client,
	m *metrics.Metrics,
	identities identity.Store,
	payloads payload.Store,
	sessions auth.SessionStore,
	authService *auth.Service,
	chain chainstate.Source,
	builder *txbuilder.Builder,
	broker *signing.Broker,
) *Server {
	if db != nil {
		m.Registry.MustRegister(sqlstats.NewStatsCollector(cfg.Database.Database, db))
	}

	return &Server{
		Config:     cfg,
		DB:         db,
		Redis:      redisClient,
		Metrics:    m,
		Identities: identities,
		Payloads:   payloads,
		Sessions:   sessions,
		Auth:       authService,
		Chain:      chain,
		Builder:    builder,
		Broker:     broker,
	}
}

// NewTestServer wires a server from caller-provided components without a
// database or redis connection. Readiness trivially passes.
func NewTestServer(
	cfg config.Server,
	m *metrics.Metrics,
	identities identity.Store,
	payloads payload.Store,
	sessions auth.SessionStore,
	authService *auth.Service,
	chain chainstate.Source,
	builder *txbuilder.Builder,
	broker *signing.Broker,
) *Server {
	return newServerWithComponents(cfg, nil, nil, m, identities, payloads, sessions, authService, chain, builder, broker)
}

// Ready reports whether the server's backing services answer.
func (s *Server) Ready(ctx context.Context) error {
	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			return errors.Wrap(err, "database not reachable")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "redis not reachable")
		}
	}
	return nil
}

func (s *Server) Start() error {
	if s.Echo == nil {
		return errors.New("server is not initialized, call router.Init first")
	}
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")

	if s.Echo != nil {
		if err := s.Echo.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return err
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return err
		}
	}
	return nil
}

// NewRedisClient connects and pings the configured redis instance.
func NewRedisClient(cfg config.Server) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to ping redis")
	}
	return client, nil
}
