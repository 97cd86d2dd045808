package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/anjiri1684/course_analytics/cache"
	"github.com/anjiri1684/course_analytics/payments"
	"github.com/sirupsen/logrus"
)

var ErrNoSource = errors.New("no payments source configured")

type AnalyticsOptions struct {
	Titles   analytics.TitleMapping
	Cache    *cache.ReportCache
	TTL      time.Duration
	Location *time.Location
	Clock    func() time.Time
}

// AnalyticsService fetches payments and keeps the most recent report.
// Every refresh recomputes from the full payment list.
type AnalyticsService struct {
	source payments.Source
	titles analytics.TitleMapping
	cache  *cache.ReportCache
	ttl    time.Duration
	loc    *time.Location
	clock  func() time.Time

	mu        sync.Mutex
	nextGen   uint64
	storedGen uint64
	report    *analytics.Report

	saveMu   sync.Mutex
	savedGen uint64
}

func NewAnalyticsService(source payments.Source, opts AnalyticsOptions) *AnalyticsService {
	s := &AnalyticsService{
		source: source,
		titles: opts.Titles,
		cache:  opts.Cache,
		ttl:    opts.TTL,
		loc:    opts.Location,
		clock:  opts.Clock,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.ttl <= 0 {
		s.ttl = 5 * time.Minute
	}
	return s
}

func (s *AnalyticsService) Location() *time.Location { return s.loc }

// Now is the service clock in the reporting location.
func (s *AnalyticsService) Now() time.Time { return s.clock().In(s.loc) }

// PaymentsBetween returns raw payments created in [from, to). Sources that
// cannot filter return everything; callers still check the window.
func (s *AnalyticsService) PaymentsBetween(ctx context.Context, from, to time.Time) ([]*analytics.PaymentRecord, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	if ranged, ok := s.source.(payments.RangeSource); ok {
		return ranged.FetchRange(ctx, from, to)
	}
	return s.source.Fetch(ctx)
}

// Refresh fetches payments and recomputes the report. When refreshes
// overlap, a slower one that started earlier never replaces the result of
// one that started later; the newest stored report is returned. A failed
// fetch leaves the previous report in place.
func (s *AnalyticsService) Refresh(ctx context.Context) (*analytics.Report, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	start := time.Now()
	records, err := s.source.Fetch(ctx)
	if err != nil {
		logrus.WithError(err).WithField("generation", gen).Error("🔥 Failed to fetch payments for analytics")
		return nil, fmt.Errorf("refresh analytics: %w", err)
	}
	report := analytics.BuildReport(records, s.Now(), s.titles)

	s.mu.Lock()
	stored := gen > s.storedGen
	if stored {
		s.report = &report
		s.storedGen = gen
	}
	current := s.report
	s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{
		"generation": gen,
		"records":    len(records),
		"completed":  report.Summary.TotalCount,
		"duration":   time.Since(start).String(),
	})
	if !stored {
		log.Warn("⚠️ Discarded stale analytics result")
		return current, nil
	}
	log.Info("✅ Analytics refreshed")

	s.save(ctx, gen, current)
	return current, nil
}

// save writes report to the shared cache unless a later generation has
// already been written there.
func (s *AnalyticsService) save(ctx context.Context, gen uint64, report *analytics.Report) {
	if s.cache == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if gen <= s.savedGen {
		return
	}
	if err := s.cache.Save(ctx, report); err != nil {
		logrus.WithError(err).Warn("⚠️ Could not cache analytics report")
		return
	}
	s.savedGen = gen
}

// Report returns the stored report while it is younger than the TTL, then
// a fresh-enough cached one, and otherwise refreshes.
func (s *AnalyticsService) Report(ctx context.Context) (*analytics.Report, error) {
	now := s.Now()

	s.mu.Lock()
	current := s.report
	s.mu.Unlock()
	if s.fresh(current, now) {
		return current, nil
	}

	if s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err != nil {
			logrus.WithError(err).Warn("⚠️ Could not read cached analytics report")
		}
		if s.fresh(cached, now) {
			s.mu.Lock()
			if s.report == nil || s.report.GeneratedAt.Before(cached.GeneratedAt) {
				s.report = cached
			}
			current = s.report
			s.mu.Unlock()
			return current, nil
		}
	}

	return s.Refresh(ctx)
}

func (s *AnalyticsService) fresh(r *analytics.Report, now time.Time) bool {
	return r != nil && now.Sub(r.GeneratedAt) < s.ttl
}
