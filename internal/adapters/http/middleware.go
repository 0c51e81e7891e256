package http

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	headerRequestID = "X-Request-Id"

	ctxRequestID = "request_id"
	ctxLogger    = "logger"

	maxRequestIDLen = 128
)

// RequestContext tags every request with an id, reusing the caller's
// X-Request-Id when it looks sane, and stores a logger carrying that id.
func RequestContext(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set(ctxRequestID, id)
			c.Set(ctxLogger, logger.With("request_id", id))
			return next(c)
		}
	}
}

// AccessLog writes one line per request once the response status is known.
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			res := c.Response()
			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
			case res.Status >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", c.Request().Method,
				"route", c.Path(),
				"path", c.Request().URL.Path,
				"status", res.Status,
				"bytes", res.Size,
				"remote_ip", c.RealIP(),
				"latency_ms", time.Since(start).Milliseconds(),
			}
			if outcome := res.Header().Get(headerOutcome); outcome != "" {
				attrs = append(attrs, "outcome", outcome)
			}
			requestLogger(c).Log(c.Request().Context(), level, "request", attrs...)
			return nil
		}
	}
}

func requestLogger(c echo.Context) *slog.Logger {
	if l, ok := c.Get(ctxLogger).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
