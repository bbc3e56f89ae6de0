// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/validation"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	AuthModeLocal  = "local"
	AuthModeRemote = "remote"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                                 {},
	"replace_with_at_least_32_random_characters":              {},
	"super-secret-jwt-token-with-at-least-32-characters-long": {},
}

var (
	ErrSecretKeyMissing  = errors.New("SECRET_KEY is required")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY uses a published placeholder")
	ErrSecretKeyTooShort = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     string        `koanf:"cors_origins"`
}

type AppConfig struct {
	Timezone        string `koanf:"timezone"`
	DefaultLanguage string `koanf:"default_language" validate:"required"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"oneof=sqlite postgres"`
	Path   string `koanf:"path"`
	URL    string `koanf:"url"`
}

type AuthConfig struct {
	Mode              string        `koanf:"mode" validate:"oneof=local remote"`
	SecretKey         string        `koanf:"secret_key"`
	Issuer            string        `koanf:"issuer"`
	Audience          string        `koanf:"audience"`
	TokenTTL          time.Duration `koanf:"token_ttl" validate:"gt=0"`
	AllowRegistration bool          `koanf:"allow_registration"`
	RemoteURL         string        `koanf:"remote_url" validate:"omitempty,url"`
	RemoteAPIKey      string        `koanf:"remote_api_key"`
	RemoteTimeout     time.Duration `koanf:"remote_timeout" validate:"gt=0"`
	AttemptsPerMinute int           `koanf:"attempts_per_minute" validate:"min=1"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		App: AppConfig{
			Timezone:        "UTC",
			DefaultLanguage: "en",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "data/sleeptrack.db",
		},
		Auth: AuthConfig{
			Mode:              AuthModeLocal,
			Issuer:            "sleeptrack",
			Audience:          "authenticated",
			TokenTTL:          24 * time.Hour,
			AllowRegistration: true,
			RemoteTimeout:     5 * time.Second,
			AttemptsPerMinute: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks struct constraints first, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Database.Driver == DriverSQLite && strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required for sqlite")
	}
	if c.Database.Driver == DriverPostgres && strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("database.url is required for postgres")
	}

	switch c.Auth.Mode {
	case AuthModeLocal:
		if err := ValidateSecretKey(c.Auth.SecretKey); err != nil {
			return err
		}
	case AuthModeRemote:
		if strings.TrimSpace(c.Auth.RemoteURL) == "" {
			return errors.New("auth.remote_url is required in remote mode")
		}
		if strings.TrimSpace(c.Auth.RemoteAPIKey) == "" {
			return errors.New("auth.remote_api_key is required in remote mode")
		}
	}
	return nil
}

// ValidateSecretKey rejects empty, placeholder and short signing secrets.
func ValidateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return ErrSecretKeyMissing
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(trimmed)]; insecure {
		return ErrSecretKeyInsecure
	}
	if len(trimmed) < minSecretKeyLength {
		return ErrSecretKeyTooShort
	}
	return nil
}

// Location resolves app.timezone, falling back to UTC when the name is unknown.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.App.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return location, nil
}

// ListenAddress is the fiber listen address for the configured port.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
