package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/api"
	"github.com/terraincognita07/sleeptrack/internal/auth"
	"github.com/terraincognita07/sleeptrack/internal/cli"
	"github.com/terraincognita07/sleeptrack/internal/config"
	"github.com/terraincognita07/sleeptrack/internal/db"
	"github.com/terraincognita07/sleeptrack/internal/i18n"
	"github.com/terraincognita07/sleeptrack/internal/logging"
)

const usage = `usage: sleeptrack [command]

commands:
  serve                      run the HTTP API (default)
  migrate                    apply database migrations and exit
  create-account <email>     create a local account
  reset-password <email>     set a temporary password for a local account`

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Fatal().Err(err).Msg("sleeptrack failed")
	}
}

func run(args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	case "serve", "migrate", "create-account", "reset-password":
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(loggingConfig(cfg))

	switch command {
	case "migrate":
		return migrate(cfg)
	case "create-account", "reset-password":
		if len(args) != 2 {
			return fmt.Errorf("%s requires an email argument\n%s", command, usage)
		}
		if cfg.Auth.Mode != config.AuthModeLocal {
			return fmt.Errorf("%s is only available with local accounts", command)
		}
		if command == "create-account" {
			return cli.RunCreateAccountCommand(databaseConfig(cfg), args[1], cli.NewPasswordPrompt(os.Stdin, os.Stdout), os.Stdout)
		}
		return cli.RunResetPasswordCommand(databaseConfig(cfg), args[1], os.Stdout)
	default:
		return serve(cfg)
	}
}

func serve(cfg *config.Config) error {
	location := mustLoadLocation(cfg)

	database, err := db.Open(databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.App.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	verifier, issuer, err := buildAuth(cfg)
	if err != nil {
		return fmt.Errorf("auth init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.Options{
		Location:          location,
		I18n:              i18nManager,
		Verifier:          verifier,
		Issuer:            issuer,
		AllowRegistration: cfg.Auth.AllowRegistration,
		AttemptsPerMinute: cfg.Auth.AttemptsPerMinute,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := api.NewApp(handler, api.AppConfig{
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logging.Info().
		Str("addr", cfg.ListenAddress()).
		Str("driver", cfg.Database.Driver).
		Str("auth_mode", cfg.Auth.Mode).
		Str("tz", location.String()).
		Msg("sleeptrack listening")
	if err := app.Listen(cfg.ListenAddress()); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func migrate(cfg *config.Config) error {
	database, err := db.Open(databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	logging.Info().Str("driver", cfg.Database.Driver).Msg("migrations applied")
	return sqlDB.Close()
}

// buildAuth returns the token verifier for the configured mode. The issuer
// is nil in remote mode, which disables the local account routes.
func buildAuth(cfg *config.Config) (auth.Verifier, *auth.TokenIssuer, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeRemote:
		verifier, err := auth.NewRemoteVerifier(auth.RemoteConfig{
			BaseURL: cfg.Auth.RemoteURL,
			APIKey:  cfg.Auth.RemoteAPIKey,
			Timeout: cfg.Auth.RemoteTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return verifier, nil, nil
	case config.AuthModeLocal:
		jwtConfig := auth.JWTConfig{
			Secret:   []byte(cfg.Auth.SecretKey),
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
			TTL:      cfg.Auth.TokenTTL,
		}
		verifier, err := auth.NewJWTVerifier(jwtConfig)
		if err != nil {
			return nil, nil, err
		}
		issuer, err := auth.NewTokenIssuer(jwtConfig)
		if err != nil {
			return nil, nil, err
		}
		return verifier, issuer, nil
	default:
		return nil, nil, errors.New("unsupported auth mode " + cfg.Auth.Mode)
	}
}

func databaseConfig(cfg *config.Config) db.Config {
	return db.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		URL:    cfg.Database.URL,
	}
}

func loggingConfig(cfg *config.Config) logging.Config {
	return logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Caller:    cfg.Log.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

func mustLoadLocation(cfg *config.Config) *time.Location {
	location, err := cfg.Location()
	if err != nil {
		logging.Warn().Err(err).Msg("falling back to UTC")
		return time.UTC
	}
	return location
}
