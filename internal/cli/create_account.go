package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/sleeptrack/internal/db"
	"github.com/terraincognita07/sleeptrack/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

// RunCreateAccountCommand creates a local account, typically the first one
// on an instance where public registration is disabled.
func RunCreateAccountCommand(cfg db.Config, email string, prompt *PasswordPrompt, out io.Writer) error {
	return withAuthService(cfg, func(authService *services.AuthService) error {
		return createAccount(authService, email, prompt, out)
	})
}

func createAccount(authService *services.AuthService, email string, prompt *PasswordPrompt, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	password, err := prompt.Read("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return err
	}
	confirmation, err := prompt.Read("Repeat password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirmation {
		return errPasswordMismatch
	}

	user, err := authService.Register(normalizedEmail, password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return fmt.Errorf("user %s already exists", normalizedEmail)
		}
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Fprintf(out, "Account created for %s (id %s)\n", user.Email, user.ID)
	return nil
}
