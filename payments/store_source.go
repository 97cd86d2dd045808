package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/anjiri1684/course_analytics/database"
	"github.com/anjiri1684/course_analytics/models"
	"gorm.io/gorm"
)

// StoreSource loads payments straight from the platform database.
type StoreSource struct {
	DB *gorm.DB
}

func NewStoreSource(db *gorm.DB) *StoreSource {
	return &StoreSource{DB: db}
}

// Fetch returns every payment regardless of status; filtering is left to
// the aggregator so legacy status spellings are handled in one place.
func (s *StoreSource) Fetch(ctx context.Context) ([]*analytics.PaymentRecord, error) {
	payments, _, err := database.ListPayments(s.DB.WithContext(ctx), database.PaymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return Records(payments), nil
}

// FetchRange pushes the creation window into the query.
func (s *StoreSource) FetchRange(ctx context.Context, from, to time.Time) ([]*analytics.PaymentRecord, error) {
	payments, _, err := database.ListPayments(s.DB.WithContext(ctx), database.PaymentFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("load payments between %s and %s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return Records(payments), nil
}

// Records converts stored payments to analytics records.
func Records(payments []models.Payment) []*analytics.PaymentRecord {
	records := make([]*analytics.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		records = append(records, p.Record())
	}
	return records
}
