package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how the service logs.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`   // text, json
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout, file, both

	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"` // days
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`

	LogPath string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile string `env:"LOG_APP_FILE" envDefault:"analytics.log"`
}

// ConfigFromEnv reads the LOG_* variables.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse log config: %w", err)
	}
	return cfg, nil
}

// Init configures the standard logrus logger.
func Init(cfg *Config) error {
	if cfg == nil {
		var err error
		if cfg, err = ConfigFromEnv(); err != nil {
			return err
		}
	}
	return Configure(logrus.StandardLogger(), cfg)
}

// Configure applies cfg to l.
func Configure(l *logrus.Logger, cfg *Config) error {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	out, err := output(cfg)
	if err != nil {
		return err
	}
	l.SetOutput(out)
	return nil
}

func output(cfg *Config) (io.Writer, error) {
	mode := strings.ToLower(cfg.Output)
	if mode == "stdout" || mode == "" {
		return os.Stdout, nil
	}

	if err := os.MkdirAll(cfg.LogPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogPath, cfg.AppFile),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	if mode == "file" {
		return file, nil
	}
	return io.MultiWriter(os.Stdout, file), nil
}
