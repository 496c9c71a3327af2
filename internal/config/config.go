package config // package config loads application configuration from environment variables

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; the defaults let a bare `serve` run against a
// local SQLite file.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`        // application environment (e.g. "dev", "prod")
	Port     string `envconfig:"APP_PORT" default:"8080"`      // HTTP port to listen on
	Timezone string `envconfig:"APP_TIMEZONE" default:"Local"` // IANA zone used to read booking dates

	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite3"`   // sqlite3 | mysql
	DBPath   string `envconfig:"DB_PATH" default:"bookings.db"` // sqlite file
	DBUser   string `envconfig:"DB_USER"`                       // mysql username
	DBPass   string `envconfig:"DB_PASS"`                       // mysql password (optional)
	DBHost   string `envconfig:"DB_HOST" default:"localhost"`   // mysql host
	DBPort   string `envconfig:"DB_PORT" default:"3306"`        // mysql port
	DBName   string `envconfig:"DB_NAME" default:"bookings"`    // mysql database name

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	AdminUsername     string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"` // bcrypt hash; admin routes are off when empty
	JWTSecret         string `envconfig:"JWT_SECRET"`
	AdminTokenTTLMin  int    `envconfig:"ADMIN_TOKEN_TTL_MIN" default:"60"`

	Rules RulesConfig
}

// RulesConfig carries the admission limits.
type RulesConfig struct {
	WindowDays   int `envconfig:"BOOKING_WINDOW_DAYS" default:"7"`
	OpenHour     int `envconfig:"BOOKING_OPEN_HOUR" default:"10"`
	CloseHour    int `envconfig:"BOOKING_CLOSE_HOUR" default:"23"`
	SlotCapacity int `envconfig:"BOOKING_SLOT_CAPACITY" default:"5"`
	MinDuration  int `envconfig:"BOOKING_MIN_DURATION_HOURS" default:"1"`
	MinuteStep   int `envconfig:"BOOKING_MINUTE_STEP" default:"30"`
}

// Load reads configuration values from the environment and validates the
// combinations envconfig cannot express on its own.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	switch c.DBDriver {
	case "sqlite3":
	case "mysql":
		if c.DBUser == "" {
			return Config{}, fmt.Errorf("DB_USER is required for driver %q", c.DBDriver)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AdminPasswordHash != "" && c.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set")
	}
	if _, err := c.Location(); err != nil {
		return Config{}, err
	}
	if c.Rules.MinuteStep <= 0 || 60%c.Rules.MinuteStep != 0 {
		return Config{}, fmt.Errorf("BOOKING_MINUTE_STEP must divide 60, got %d", c.Rules.MinuteStep)
	}
	if c.Rules.OpenHour < 0 || c.Rules.CloseHour > 24 || c.Rules.OpenHour >= c.Rules.CloseHour {
		return Config{}, fmt.Errorf("invalid booking hours [%d, %d)", c.Rules.OpenHour, c.Rules.CloseHour)
	}
	return c, nil
}

// Location resolves Timezone.  An empty value or "Local" maps to the host
// zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// AdminEnabled reports whether the admin routes should be mounted.
func (c Config) AdminEnabled() bool { return c.AdminPasswordHash != "" }
