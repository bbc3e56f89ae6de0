package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "SLEEPTRACK_CONFIG"

var DefaultConfigPaths = []string{
	"sleeptrack.yaml",
	"sleeptrack.yml",
	"/etc/sleeptrack/config.yaml",
}

// Load reads .env when present, then builds the configuration from the
// defaults, the first config file found and the process environment.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file; an empty path skips the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.Auth.SecretKey = strings.TrimSpace(cfg.Auth.SecretKey)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":                     "server.port",
	"read_timeout":             "server.read_timeout",
	"write_timeout":            "server.write_timeout",
	"shutdown_timeout":         "server.shutdown_timeout",
	"cors_origins":             "server.cors_origins",
	"tz":                       "app.timezone",
	"default_language":         "app.default_language",
	"db_driver":                "database.driver",
	"db_path":                  "database.path",
	"database_url":             "database.url",
	"auth_mode":                "auth.mode",
	"secret_key":               "auth.secret_key",
	"jwt_issuer":               "auth.issuer",
	"jwt_audience":             "auth.audience",
	"token_ttl":                "auth.token_ttl",
	"allow_registration":       "auth.allow_registration",
	"auth_remote_url":          "auth.remote_url",
	"supabase_url":             "auth.remote_url",
	"auth_remote_api_key":      "auth.remote_api_key",
	"supabase_anon_key":        "auth.remote_api_key",
	"auth_remote_timeout":      "auth.remote_timeout",
	"auth_attempts_per_minute": "auth.attempts_per_minute",
	"log_level":                "log.level",
	"log_format":               "log.format",
	"log_caller":               "log.caller",
	"metrics_enabled":          "metrics.enabled",
}

// envTransformFunc maps known variables to koanf paths. Unknown and empty
// variables are dropped so they never shadow lower layers.
func envTransformFunc(key string, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped, value
	}
	return "", nil
}
