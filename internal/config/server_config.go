package config

import (
	"fmt"
	"time"

	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/rs/zerolog"
)

// EchoServer configures the HTTP listener.
type EchoServer struct {
	ListenAddress        string
	HideInternalServer   bool
	EnableCORSMiddleware bool
}

type Database struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString builds a lib/pq DSN from the individual parts.
func (d Database) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

type Redis struct {
	Address  string
	Password string
	DB       int
}

type Auth struct {
	JWTSecret          string
	JWTIssuer          string
	SessionExpiry      time.Duration
	ChallengePollEvery time.Duration
	ChallengePollMax   int
}

// Chain holds the chain-facing constants and the data-source endpoint.
type Chain struct {
	NodeBaseURL     string
	RequestTimeout  time.Duration
	NetworkPrefix   byte
	MinFee          uint64
	SafeMinBoxValue uint64
	// Number of recent block headers bound into a reduced transaction's
	// signing context.
	ContextHeaders int
}

type Signing struct {
	PayloadTTL       time.Duration
	PaymentPollEvery time.Duration
	PaymentPollMax   int
	// Deep-link base, e.g. "ergopay://pay.cruxfinance.io". The transient
	// payload key and the wallet address placeholder are appended.
	DeepLinkBase string
	QRSize       int
}

type Logger struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	PrettyPrintConsole bool
	LogRequestBody     bool
}

type Management struct {
	HealthyCheckTimeout time.Duration
	ReadyCheckTimeout   time.Duration
}

// Server is the root configuration tree, resolved once at startup.
type Server struct {
	Echo       EchoServer
	Database   Database
	Redis      Redis
	Auth       Auth
	Chain      Chain
	Signing    Signing
	Logger     Logger
	Management Management
}

// DefaultServiceConfigFromEnv returns the full server config, preferring
// environment variables over the baked-in defaults.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			ListenAddress:        util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServer:   util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER", true),
			EnableCORSMiddleware: util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
		},
		Database: Database{
			Host:     util.GetEnv("PGHOST", "postgres"),
			Port:     util.GetEnvAsInt("PGPORT", 5432),
			Username: util.GetEnv("PGUSER", "crux"),
			Password: util.GetEnv("PGPASSWORD", ""),
			Database: util.GetEnv("PGDATABASE", "crux"),
			SSLMode:  util.GetEnv("PGSSLMODE", "disable"),
		},
		Redis: Redis{
			Address:  util.GetEnv("REDIS_ADDRESS", "redis:6379"),
			Password: util.GetEnv("REDIS_PASSWORD", ""),
			DB:       util.GetEnvAsInt("REDIS_DB", 0),
		},
		Auth: Auth{
			JWTSecret:          util.GetEnv("AUTH_JWT_SECRET", ""),
			JWTIssuer:          util.GetEnv("AUTH_JWT_ISSUER", "crux-backend"),
			SessionExpiry:      util.GetEnvAsDuration("AUTH_SESSION_EXPIRY", 24*time.Hour),
			ChallengePollEvery: util.GetEnvAsDuration("AUTH_CHALLENGE_POLL_INTERVAL", 2*time.Second),
			ChallengePollMax:   util.GetEnvAsInt("AUTH_CHALLENGE_POLL_MAX_ATTEMPTS", 150),
		},
		Chain: Chain{
			NodeBaseURL:     util.GetEnv("CHAIN_NODE_BASE_URL", "http://node:9053"),
			RequestTimeout:  util.GetEnvAsDuration("CHAIN_REQUEST_TIMEOUT", 10*time.Second),
			NetworkPrefix:   byte(util.GetEnvAsInt("CHAIN_NETWORK_PREFIX", 0)),
			MinFee:          util.GetEnvAsUint64("CHAIN_MIN_FEE", 1100000),
			SafeMinBoxValue: util.GetEnvAsUint64("CHAIN_SAFE_MIN_BOX_VALUE", 1000000),
			ContextHeaders:  util.GetEnvAsInt("CHAIN_CONTEXT_HEADERS", 10),
		},
		Signing: Signing{
			PayloadTTL:       util.GetEnvAsDuration("SIGNING_PAYLOAD_TTL", time.Hour),
			PaymentPollEvery: util.GetEnvAsDuration("SIGNING_PAYMENT_POLL_INTERVAL", 4*time.Second),
			PaymentPollMax:   util.GetEnvAsInt("SIGNING_PAYMENT_POLL_MAX_ATTEMPTS", 450),
			DeepLinkBase:     util.GetEnv("SIGNING_DEEP_LINK_BASE", "ergopay://pay.cruxfinance.io"),
			QRSize:           util.GetEnvAsInt("SIGNING_QR_SIZE", 256),
		},
		Logger: Logger{
			Level:              zerologLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", "info")),
			RequestLevel:       zerologLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", "debug")),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
		},
		Management: Management{
			HealthyCheckTimeout: util.GetEnvAsDuration("SERVER_MANAGEMENT_HEALTHY_CHECK_TIMEOUT", 4*time.Second),
			ReadyCheckTimeout:   util.GetEnvAsDuration("SERVER_MANAGEMENT_READY_CHECK_TIMEOUT", 4*time.Second),
		},
	}
}

func zerologLevelFromString(lvl string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return zerolog.InfoLevel
	}
	return parsed
}
