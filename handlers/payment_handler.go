package handlers

import (
	"math"
	"strconv"

	"github.com/anjiri1684/course_analytics/database"
	"github.com/anjiri1684/course_analytics/payments"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 500
)

type PaymentHandler struct {
	DB *gorm.DB
}

// AdminGetPayments serves the {data, meta} payment listing. limit=0 returns
// every matching payment on a single page.
func (h *PaymentHandler) AdminGetPayments(c *fiber.Ctx) error {
	page, limit := pagination(c.Query("page", "1"), c.Query("limit", strconv.Itoa(defaultPageSize)))

	list, total, err := database.ListPayments(h.DB.WithContext(c.UserContext()), database.PaymentFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		logrus.WithError(err).Error("🔥 Failed to list payments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"data": payments.Records(list),
		"meta": fiber.Map{"total": total, "page": page, "last_page": lastPage(total, limit)},
	})
}

func pagination(pageStr, limitStr string) (page, limit int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if limit == 0 {
		page = 1
	}
	return page, limit
}

func lastPage(total int64, limit int) int {
	if limit <= 0 || total == 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
