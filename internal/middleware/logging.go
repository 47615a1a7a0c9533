// Package middleware provides the HTTP cross-cutting concerns: request
// logging, tracing, and rate limiting.
package middleware

import (
	"log/slog"
	"time"

	"quill/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware injects the request id from Fiber locals into the
// request context so deeper layers can log with it.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rid, ok := c.Locals("requestid").(string); ok {
			c.SetUserContext(observability.WithCorrelationID(c.UserContext(), rid))
		}
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware logging each request with slog.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
		}
		if rid := observability.ExtractCorrelationID(c.UserContext()); rid != "" {
			fields = append(fields, slog.String("request_id", rid))
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			observability.Logger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			observability.Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
