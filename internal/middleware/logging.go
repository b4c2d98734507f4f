package middleware

import (
	"time"

	"tyrezone/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StructuredLogging logs one line per request once the handler has finished.
func StructuredLogging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()
		if err != nil {
			// the app's error handler has not run yet
			if fe, ok := err.(*fiber.Error); ok {
				statusCode = fe.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		l := logger.WithContext(c.UserContext())
		logEvent := l.Info()
		if statusCode >= 500 {
			logEvent = l.Error().Err(err)
		} else if statusCode >= 400 {
			logEvent = l.Warn()
		}

		logEvent.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("ip", c.IP()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("Request completed")

		return err
	}
}
