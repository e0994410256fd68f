package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/combstruct/combstruct/internal/logging"
)

// requestID echoes an incoming X-Request-ID or assigns a ULID.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	})
}

// requestLogger puts a request-scoped logger and trace ID into the request
// context and logs one line per request.
func requestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)

			l := base.With().Str("request_id", rid).Logger()
			ctx := logging.ContextWithTraceID(c.Request().Context(), rid)
			ctx = l.WithContext(ctx)
			c.SetRequest(c.Request().WithContext(ctx))

			if err := next(c); err != nil {
				c.Error(err)
			}

			l.Info().
				Ctx(ctx).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("request handled")
			return nil
		}
	}
}
