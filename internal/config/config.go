package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config keeps runtime settings for the server, bot and scheduler.
type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":5000"`
	DatabaseURL   string        `env:"DATABASE_URL" envDefault:"consistency_tracker.db"`
	TelegramToken string        `env:"TELEGRAM_TOKEN"`
	ReportTime    string        `env:"REPORT_TIME" envDefault:"21:00"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`
	Timezone      string        `env:"TIMEZONE" envDefault:"Local"`
	IntervalHours string        `env:"REPORT_INTERVAL_HOURS"`

	// ReportInterval overrides ReportTime when positive.
	ReportInterval time.Duration
	Location       *time.Location
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom is Load over an explicit variable set; nil means the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	interval, err := parseInterval(strings.TrimSpace(cfg.IntervalHours))
	if err != nil {
		return cfg, fmt.Errorf("REPORT_INTERVAL_HOURS: %w", err)
	}
	cfg.ReportInterval = interval

	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "consistency_tracker.db"
	}

	loc, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.SessionTTL <= 0 {
		return cfg, fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, _, err := ParseClock(cfg.ReportTime); err != nil {
		return cfg, fmt.Errorf("REPORT_TIME: %w", err)
	}

	return cfg, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(raw string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}

// parseInterval reads a number of hours. Empty or zero disables interval
// reports in favour of the daily REPORT_TIME.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", raw)
	}
	if hours < 0 {
		return 0, fmt.Errorf("hours must not be negative, got %q", raw)
	}
	return hours, nil
}
