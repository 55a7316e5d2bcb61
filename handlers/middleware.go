package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/a2n2k3p4/printbuddy-backend/metrics"
)

// RequireSession enforces a bearer session token. The 401s it issues are what
// drive the mobile client's session-expiry handling.
func RequireSession(valid func(token string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" || !valid(token) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Session expired",
			})
		}
		return c.Next()
	}
}

// MetricsMiddleware records request counts and durations per route.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		label := "SUCCESS"
		if status >= 400 {
			label = "FAILED"
		}
		route := c.Route().Path
		metrics.IncRequest(route, label, c.Method())
		metrics.ObserveDuration(route, label, time.Since(start).Seconds())
		return err
	}
}
