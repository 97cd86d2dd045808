package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/anjiri1684/course_analytics/cache"
	config "github.com/anjiri1684/course_analytics/configs"
	"github.com/anjiri1684/course_analytics/database"
	"github.com/anjiri1684/course_analytics/handlers"
	"github.com/anjiri1684/course_analytics/jobs"
	"github.com/anjiri1684/course_analytics/logger"
	"github.com/anjiri1684/course_analytics/notifications"
	"github.com/anjiri1684/course_analytics/payments"
	"github.com/anjiri1684/course_analytics/routes"
	"github.com/anjiri1684/course_analytics/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	if err := logger.Init(nil); err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to configure logging")
	}

	cfg, err := config.Get()
	if err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to load configuration")
	}

	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to migrate database")
	}
	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to seed admin user")
	}

	titles, err := loadTitles(cfg.CourseTitlesFile)
	if err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to load course titles")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportCache := connectCache(ctx, cfg)
	svc := services.NewAnalyticsService(paymentSource(cfg, db), services.AnalyticsOptions{
		Titles:   titles,
		Cache:    reportCache,
		TTL:      cfg.AnalyticsTTL,
		Location: cfg.Location(),
	})

	var mailer notifications.Mailer
	if brevo := notifications.NewBrevoService(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName); brevo != nil {
		mailer = brevo
	}

	c := cron.New(cron.WithLocation(cfg.Location()))
	err = jobs.Register(c, jobs.Schedule{
		RefreshSpec: cfg.AnalyticsRefreshCron,
		DigestSpec:  cfg.DigestCron,
		Recipient:   cfg.Recipient(),
	}, svc, mailer)
	if err != nil {
		logrus.WithError(err).Fatal("🔥 Failed to schedule jobs")
	}
	c.Start()
	defer c.Stop()

	go func() {
		if _, err := svc.Refresh(ctx); err != nil {
			logrus.WithError(err).Warn("⚠️ Initial analytics refresh failed")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:       "Course Analytics",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			logrus.WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
				"code":   code,
			}).WithError(err).Error("[ERROR] request failed")
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.TimeZone,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h := routes.Handlers{
		Auth:      &handlers.AuthHandler{DB: db, Secret: cfg.JWTSecret, Expiry: cfg.JWTExpiry},
		Analytics: &handlers.AnalyticsHandler{Service: svc},
		Payments:  &handlers.PaymentHandler{DB: db},
		JWTSecret: cfg.JWTSecret,
	}
	routes.AuthRoutes(app, h)
	routes.AdminRoutes(app, h)

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Error("🔥 Server shutdown failed")
		}
	}()

	logrus.WithField("address", cfg.Address).Info("✅ Server is running")
	if err := app.Listen(cfg.Address); err != nil {
		logrus.WithError(err).Fatal("🔥 Server failed to start")
	}
}

func loadTitles(path string) (analytics.TitleMapping, error) {
	if path == "" {
		return analytics.TitleMapping{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	titles, err := analytics.ParseTitleMapping(data)
	if err != nil {
		return nil, err
	}
	logrus.WithField("titles", len(titles)).Info("✅ Course title mapping loaded")
	return titles, nil
}

func paymentSource(cfg *config.Configuration, db *gorm.DB) payments.Source {
	if cfg.PaymentSource == config.SourceREST {
		logrus.WithField("url", cfg.PaymentsAPIURL).Info("Reading payments from REST API")
		return payments.NewRESTSource(cfg.PaymentsAPIURL, cfg.PaymentsAPIToken, cfg.PaymentsAPITimeout)
	}
	logrus.Info("Reading payments from database")
	return payments.NewStoreSource(db)
}

// connectCache returns nil when Redis is not configured or unreachable;
// reports are then kept in memory only.
func connectCache(ctx context.Context, cfg *config.Configuration) *cache.ReportCache {
	if cfg.RedisAddr == "" {
		return nil
	}
	store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logrus.WithError(err).Warn("⚠️ Redis unavailable, caching reports in memory only")
		return nil
	}
	logrus.WithField("addr", cfg.RedisAddr).Info("✅ Redis connected")
	return cache.NewReportCache(store, cfg.AnalyticsTTL)
}
