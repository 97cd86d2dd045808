package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET":   "0123456789abcdef0123",
		"DATABASE_URL": "postgres://localhost/courses",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, SourceDatabase, cfg.PaymentSource)
	assert.Equal(t, 5*time.Minute, cfg.AnalyticsTTL)
	assert.Equal(t, 15*time.Second, cfg.PaymentsAPITimeout)
	assert.Equal(t, "Asia/Dhaka", cfg.Location().String())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	setEnv(t, map[string]string{"JWT_SECRET": "", "DATABASE_URL": "postgres://localhost/courses"})

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Configuration {
		return Configuration{
			PaymentSource: SourceDatabase,
			DatabaseURL:   "postgres://localhost/courses",
			JWTSecret:     "0123456789abcdef0123",
			TimeZone:      "UTC",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr bool
	}{
		{name: "database source", mutate: func(c *Configuration) {}},
		{name: "rest source needs url", mutate: func(c *Configuration) { c.PaymentSource = SourceREST }, wantErr: true},
		{name: "rest source with url", mutate: func(c *Configuration) {
			c.PaymentSource = SourceREST
			c.PaymentsAPIURL = "https://api.example.com/payments"
		}},
		{name: "malformed url", mutate: func(c *Configuration) {
			c.PaymentSource = SourceREST
			c.PaymentsAPIURL = "not a url"
		}, wantErr: true},
		{name: "unknown source", mutate: func(c *Configuration) { c.PaymentSource = "csv" }, wantErr: true},
		{name: "dsn always required", mutate: func(c *Configuration) { c.DatabaseURL = "" }, wantErr: true},
		{name: "short secret", mutate: func(c *Configuration) { c.JWTSecret = "short" }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Configuration) { c.TimeZone = "Mars/Olympus" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecipient(t *testing.T) {
	c := Configuration{AdminEmail: "admin@example.com"}
	assert.Equal(t, "admin@example.com", c.Recipient())

	c.DigestRecipient = "finance@example.com"
	assert.Equal(t, "finance@example.com", c.Recipient())
}
