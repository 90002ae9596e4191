package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/logger"
)

// Logging logs every HTTP request with its outcome.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status. Server errors are logged at
// error level, client errors at warn level.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	status := responseStatus(c, err)
	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"client", c.IP(),
	}

	switch {
	case status >= fiber.StatusInternalServerError:
		l.logger.Error("HTTP request failed", append(attrs, "error", err)...)
	case status >= fiber.StatusBadRequest:
		l.logger.Warn("HTTP request rejected", append(attrs, "error", err)...)
	default:
		l.logger.Info("HTTP request completed", attrs...)
	}

	return err
}
