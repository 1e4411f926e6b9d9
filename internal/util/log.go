package util

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// CTXKeyLogger is the context key under which the request-scoped
	// logger is stored by the logging middleware.
	CTXKeyLogger contextKey = "logger"
)

// LogFromContext returns the request-scoped logger stored in ctx, falling
// back to the global logger if none was attached (e.g. outside a request).
func LogFromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(CTXKeyLogger).(*zerolog.Logger); ok && l != nil {
		return l
	}
	l := log.Logger
	return &l
}

// WithLogger attaches the given logger to the context.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, CTXKeyLogger, &l)
}

// LogFromEchoContext returns the request-scoped logger of the current
// echo request.
func LogFromEchoContext(c echo.Context) *zerolog.Logger {
	return LogFromContext(c.Request().Context())
}
