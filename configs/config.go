package config

import (
	"fmt"
	"os"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	SourceDatabase = "database"
	SourceREST     = "rest"
)

type Configuration struct {
	Address     string `env:"ADDRESS" envDefault:":8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	DatabaseURL string `env:"DATABASE_URL" validate:"required"`

	PaymentSource      string        `env:"PAYMENT_SOURCE" envDefault:"database" validate:"oneof=database rest"`
	PaymentsAPIURL     string        `env:"PAYMENTS_API_URL" validate:"required_if=PaymentSource rest"`
	PaymentsAPIToken   string        `env:"PAYMENTS_API_TOKEN"`
	PaymentsAPITimeout time.Duration `env:"PAYMENTS_API_TIMEOUT" envDefault:"15s"`

	JWTSecret     string        `env:"JWT_SECRET,required" validate:"min=16"`
	JWTExpiry     time.Duration `env:"JWT_EXPIRY" envDefault:"72h"`
	AdminEmail    string        `env:"ADMIN_EMAIL" validate:"omitempty,email"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	AdminFullName string        `env:"ADMIN_FULL_NAME" envDefault:"Administrator"`

	TimeZone             string        `env:"TIMEZONE" envDefault:"Asia/Dhaka"`
	CourseTitlesFile     string        `env:"COURSE_TITLES_FILE"`
	AnalyticsTTL         time.Duration `env:"ANALYTICS_TTL" envDefault:"5m"`
	AnalyticsRefreshCron string        `env:"ANALYTICS_REFRESH_CRON" envDefault:"*/10 * * * *"`
	DigestCron           string        `env:"DIGEST_CRON" envDefault:"0 7 * * *"`
	DigestRecipient      string        `env:"DIGEST_RECIPIENT" validate:"omitempty,email"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	BrevoAPIKey     string `env:"BREVO_API_KEY"`
	EmailSender     string `env:"EMAIL_SENDER" validate:"omitempty,email"`
	EmailSenderName string `env:"EMAIL_SENDER_NAME"`
}

var (
	current *Configuration
	loadErr error
	once    sync.Once
)

// Load reads .env (if present) and the process environment.
func Load() (*Configuration, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("⚠️ Could not read .env file, using system environment variables")
	}

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the process configuration, loading it on first use.
func Get() (*Configuration, error) {
	once.Do(func() {
		current, loadErr = Load()
	})
	return current, loadErr
}

var validate = validator.New()

func (c *Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.PaymentsAPIURL != "" {
		if err := validate.Var(c.PaymentsAPIURL, "url"); err != nil {
			return fmt.Errorf("invalid configuration: PAYMENTS_API_URL: %w", err)
		}
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid configuration: TIMEZONE: %w", err)
	}
	return nil
}

// Location is the zone the dashboard reports in.
func (c *Configuration) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Recipient is who gets the daily revenue digest.
func (c *Configuration) Recipient() string {
	if c.DigestRecipient != "" {
		return c.DigestRecipient
	}
	return c.AdminEmail
}
