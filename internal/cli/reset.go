package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/sleeptrack/internal/db"
	"github.com/terraincognita07/sleeptrack/internal/security"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

// RunResetPasswordCommand replaces the password of a local account with a
// generated one and flags the account so the next session must change it.
func RunResetPasswordCommand(cfg db.Config, email string, out io.Writer) error {
	return withAuthService(cfg, func(authService *services.AuthService) error {
		return resetPassword(authService, email, out)
	})
}

func resetPassword(authService *services.AuthService, email string, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	if _, err := authService.ResetPassword(normalizedEmail, temporaryPassword); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

func withAuthService(cfg db.Config, run func(*services.AuthService) error) error {
	database, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	return run(services.NewAuthService(db.NewUserRepository(database)))
}

func closeDatabase(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
