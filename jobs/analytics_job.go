package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/anjiri1684/course_analytics/notifications"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 2 * time.Minute

type Reporter interface {
	Refresh(ctx context.Context) (*analytics.Report, error)
	Report(ctx context.Context) (*analytics.Report, error)
	Now() time.Time
}

// RefreshAnalytics recomputes the dashboard report.
func RefreshAnalytics(svc Reporter) func() {
	return func() {
		logrus.Debug("Running job: RefreshAnalytics...")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, err := svc.Refresh(ctx); err != nil {
			logrus.WithError(err).Error("🔥 Scheduled analytics refresh failed")
		}
	}
}

// SendRevenueDigest mails the current summary to recipient. It does
// nothing when email is disabled or no recipient is configured.
func SendRevenueDigest(svc Reporter, mailer notifications.Mailer, recipient string) func() {
	return func() {
		if mailer == nil || recipient == "" {
			logrus.Debug("Revenue digest disabled, skipping")
			return
		}
		logrus.Info("Running job: SendRevenueDigest...")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		report, err := svc.Refresh(ctx)
		if err != nil {
			logrus.WithError(err).Error("🔥 Could not build revenue digest")
			return
		}
		subject, body := notifications.RenderDigest(svc.Now(), report.Summary, report.Courses)
		if err := mailer.SendEmail(ctx, "", recipient, subject, body); err != nil {
			logrus.WithError(err).WithField("to", recipient).Error("🔥 Failed to send revenue digest")
		}
	}
}

type Schedule struct {
	RefreshSpec string
	DigestSpec  string
	Recipient   string
}

// Register adds the analytics jobs to c.
func Register(c *cron.Cron, s Schedule, svc Reporter, mailer notifications.Mailer) error {
	if _, err := c.AddFunc(s.RefreshSpec, RefreshAnalytics(svc)); err != nil {
		return fmt.Errorf("schedule analytics refresh %q: %w", s.RefreshSpec, err)
	}
	if _, err := c.AddFunc(s.DigestSpec, SendRevenueDigest(svc, mailer, s.Recipient)); err != nil {
		return fmt.Errorf("schedule revenue digest %q: %w", s.DigestSpec, err)
	}
	logrus.WithFields(logrus.Fields{
		"refresh": s.RefreshSpec,
		"digest":  s.DigestSpec,
	}).Info("✅ Analytics jobs scheduled successfully.")
	return nil
}
