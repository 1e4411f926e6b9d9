package middleware

import (
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Logger attaches a request-scoped zerolog logger to the context and emits
// one line per request.
func Logger(cfg config.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			l := log.Level(cfg.RequestLevel).With().
				Str("request_id", requestID).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			c.SetRequest(req.WithContext(util.WithLogger(req.Context(), l)))

			start := time.Now()
			err := next(c)

			event := l.WithLevel(cfg.RequestLevel).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start))
			if err != nil {
				event = event.Err(err)
			}
			event.Msg("Request")

			return err
		}
	}
}
