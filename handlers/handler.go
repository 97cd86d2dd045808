package handlers

import (
	"errors"

	"github.com/anjiri1684/course_analytics/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// analyticsError maps a failed refresh to a response. The aggregator
// itself never fails, so any error here comes from fetching payments.
func analyticsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNoSource) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Payments source not configured"})
	}
	logrus.WithError(err).WithField("path", c.Path()).Error("🔥 Payments source unavailable")
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payments source unavailable"})
}
