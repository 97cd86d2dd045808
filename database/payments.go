package database

import (
	"strings"
	"time"

	"github.com/anjiri1684/course_analytics/models"
	"gorm.io/gorm"
)

// PaymentFilter narrows a payment listing. Zero values mean no filter;
// Limit <= 0 returns every matching row.
type PaymentFilter struct {
	Status string
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

func (f PaymentFilter) apply(q *gorm.DB) *gorm.DB {
	if status := strings.TrimSpace(f.Status); status != "" {
		q = q.Where("LOWER(status) = ?", strings.ToLower(status))
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	return q
}

// ListPayments returns the matching payments newest first with their user
// and course preloaded, plus the total number of matches.
func ListPayments(db *gorm.DB, f PaymentFilter) ([]models.Payment, int64, error) {
	var total int64
	if err := f.apply(db.Model(&models.Payment{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := f.apply(db.Model(&models.Payment{})).Order("created_at desc").Preload("User").Preload("Course")
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
