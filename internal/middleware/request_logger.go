package middleware

import (
	"time"

	"onyx-tutor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request after the handler chain ran.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusForError(err)
		}
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if userID := UserID(c); userID != "" {
			fields = append(fields, zap.String("userID", userID))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Get().Error("Request completed", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Get().Warn("Request completed", fields...)
		default:
			logger.Get().Info("Request completed", fields...)
		}
		return err
	}
}
