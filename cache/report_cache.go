package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
)

// ErrMiss is returned by a Store when the key does not exist.
var ErrMiss = errors.New("cache miss")

// Store is the byte-level key/value backend behind ReportCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const reportKey = "analytics:report"

// ReportCache keeps the latest analytics report so that restarted or
// additional instances can serve it without recomputing.
type ReportCache struct {
	store Store
	ttl   time.Duration
}

func NewReportCache(store Store, ttl time.Duration) *ReportCache {
	return &ReportCache{store: store, ttl: ttl}
}

// Load returns (nil, nil) on a miss.
func (c *ReportCache) Load(ctx context.Context) (*analytics.Report, error) {
	data, err := c.store.Get(ctx, reportKey)
	if errors.Is(err, ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cached report: %w", err)
	}

	var report analytics.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

func (c *ReportCache) Save(ctx context.Context, report *analytics.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.store.SetWithTTL(ctx, reportKey, data, c.ttl); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (c *ReportCache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, reportKey)
}
