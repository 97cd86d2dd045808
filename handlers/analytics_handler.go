package handlers

import (
	"context"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsReporter interface {
	Report(ctx context.Context) (*analytics.Report, error)
	Refresh(ctx context.Context) (*analytics.Report, error)
	PaymentsBetween(ctx context.Context, from, to time.Time) ([]*analytics.PaymentRecord, error)
	Now() time.Time
}

type AnalyticsHandler struct {
	Service AnalyticsReporter
}

type timeSeriesQuery struct {
	Period string `query:"period" validate:"omitempty,oneof=yearly monthly weekly daily"`
}

func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	report, err := h.Service.Report(c.UserContext())
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(report.Summary)
}

// GetTimeSeries returns every granularity, or just the one named by
// ?period=.
func (h *AnalyticsHandler) GetTimeSeries(c *fiber.Ctx) error {
	var q timeSeriesQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "period must be one of yearly, monthly, weekly, daily"})
	}

	report, err := h.Service.Report(c.UserContext())
	if err != nil {
		return analyticsError(c, err)
	}
	if q.Period == "" {
		return c.JSON(report.TimeSeries)
	}
	return c.JSON(fiber.Map{
		"period":  q.Period,
		"buckets": report.TimeSeries.Period(q.Period),
	})
}

func (h *AnalyticsHandler) GetCourses(c *fiber.Ctx) error {
	report, err := h.Service.Report(c.UserContext())
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(report.Courses)
}

func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.Service.Report(c.UserContext())
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(report)
}

func (h *AnalyticsHandler) RefreshAnalytics(c *fiber.Ctx) error {
	report, err := h.Service.Refresh(c.UserContext())
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Analytics refreshed successfully",
		"generated_at": report.GeneratedAt,
	})
}
