package handlers

import (
	"fmt"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type bucketExportQuery struct {
	Period string `query:"period" validate:"required,oneof=yearly monthly weekly daily"`
}

func sendCSV(c *fiber.Ctx, filename, body string) error {
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	return c.SendString(body)
}

func (h *AnalyticsHandler) ExportCourses(c *fiber.Ctx) error {
	report, err := h.Service.Report(c.UserContext())
	if err != nil {
		return analyticsError(c, err)
	}
	body := analytics.ToCSV(analytics.CourseRows(report.Courses))
	return sendCSV(c, fmt.Sprintf("courses_%s.csv", h.Service.Now().Format(dateLayout)), body)
}

func (h *AnalyticsHandler) ExportTimeSeries(c *fiber.Ctx) error {
	var q bucketExportQuery
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
	body := analytics.ToCSV(analytics.BucketRows(report.TimeSeries.Period(q.Period)))
	return sendCSV(c, fmt.Sprintf("revenue_%s_%s.csv", q.Period, h.Service.Now().Format(dateLayout)), body)
}

// ExportTransactions writes the completed payments created between
// start_date and end_date, both inclusive. The range defaults to the last
// month.
func (h *AnalyticsHandler) ExportTransactions(c *fiber.Ctx) error {
	now := h.Service.Now()
	loc := now.Location()

	startDate, err := time.ParseInLocation(dateLayout, c.Query("start_date", now.AddDate(0, -1, 0).Format(dateLayout)), loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format. Use YYYY-MM-DD."})
	}
	endDate, err := time.ParseInLocation(dateLayout, c.Query("end_date", now.Format(dateLayout)), loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format. Use YYYY-MM-DD."})
	}
	if endDate.Before(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}
	until := endDate.AddDate(0, 0, 1)

	records, err := h.Service.PaymentsBetween(c.UserContext(), startDate, until)
	if err != nil {
		return analyticsError(c, err)
	}

	var inRange []*analytics.PaymentRecord
	for _, p := range analytics.FilterCompleted(records) {
		at, ok := analytics.ParseCreatedAt(p.CreatedAt, loc)
		if !ok || at.Before(startDate) || !at.Before(until) {
			continue
		}
		inRange = append(inRange, p)
	}

	body := analytics.PaymentsCSV(inRange)
	filename := fmt.Sprintf("transactions_%s_to_%s.csv", startDate.Format(dateLayout), endDate.Format(dateLayout))
	return sendCSV(c, filename, body)
}
