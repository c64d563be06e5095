package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"condobill"`
		Port int    `envconfig:"PORT" default:"8080"`
		// DisplayTimezone drives *_formatted fields and the calendar day used in minted identifiers.
		DisplayTimezone string `envconfig:"DISPLAY_TIMEZONE" default:"Asia/Bangkok"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"condobill"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
		JWTSecret   string        `envconfig:"JWT_SECRET"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}

	Redis struct {
		// Addr left empty disables notification event publishing.
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
		Stream   string `envconfig:"NOTIFICATION_STREAM" default:"bill:notifications"`
	}

	Upload struct {
		Dir          string        `envconfig:"UPLOAD_DIR" default:"./uploads"`
		FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
		FetchRetries int           `envconfig:"FETCH_RETRIES" default:"2"`
	}

	TUI struct {
		CustomerID string `envconfig:"TUI_CUSTOMER_ID"`
		Actor      string `envconfig:"TUI_ACTOR" default:"operator"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves DisplayTimezone, falling back to UTC when the zone database lacks it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.DisplayTimezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
