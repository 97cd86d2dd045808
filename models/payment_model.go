package models

import (
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/google/uuid"
)

type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TransactionID string     `gorm:"size:255;not null;index"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	CourseID      *uuid.UUID `gorm:"type:uuid;index"`
	Amount        float64    `gorm:"type:numeric(10,2);not null"`
	Status        string     `gorm:"size:20;not null;index"`
	PaymentMethod *string    `gorm:"size:50"`
	CardType      *string    `gorm:"size:50"`

	User   *User   `gorm:"foreignkey:UserID"`
	Course *Course `gorm:"foreignkey:CourseID"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// Record converts a stored payment to the shape the analytics package and
// the payments API use. Missing associations stay nil.
func (p Payment) Record() *analytics.PaymentRecord {
	rec := &analytics.PaymentRecord{
		ID:            analytics.ID(p.ID.String()),
		TransactionID: p.TransactionID,
		Amount:        analytics.Amount(p.Amount),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339Nano),
	}
	if p.PaymentMethod != nil {
		rec.PaymentMethod = *p.PaymentMethod
	}
	if p.CardType != nil {
		rec.CardType = *p.CardType
	}
	if p.User != nil {
		rec.User = &analytics.UserRef{
			ID:    analytics.ID(p.User.ID.String()),
			Name:  p.User.FullName,
			Email: p.User.Email,
		}
		if p.User.MobileNumber != nil {
			rec.User.MobileNumber = *p.User.MobileNumber
		}
	} else if p.UserID != nil {
		rec.User = &analytics.UserRef{ID: analytics.ID(p.UserID.String())}
	}
	if p.Course != nil {
		rec.Course = &analytics.CourseRef{
			ID:        analytics.ID(p.Course.ID.String()),
			Title:     p.Course.Title,
			CourseFee: analytics.Amount(p.Course.CourseFee),
		}
	}
	return rec
}
