package middleware

import (
	"strconv"
	"time"

	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency per matched route.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		method := c.Method()
		m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}
