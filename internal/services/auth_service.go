package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/sleeptrack/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken               = errors.New("email already registered")
	ErrAccountNotFound          = errors.New("account not found")
	ErrInvalidCurrentPassword   = errors.New("invalid current password")
	ErrNewPasswordMustDiffer    = errors.New("new password must differ")
	ErrPasswordChangeInvalid    = errors.New("password change invalid input")
	ErrAccountStoreFailed       = errors.New("account store failed")
	ErrRegistrationEmailInvalid = errors.New("registration email invalid")
)

type AuthUserRepository interface {
	FindByID(userID string) (models.User, bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	CreateWithProfile(user *models.User, profile *models.Profile) error
	UpdatePassword(userID string, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users    AuthUserRepository
	hashCost int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{
		users:    users,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost used for new hashes.
func (service *AuthService) WithHashCost(cost int) *AuthService {
	service.hashCost = cost
	return service
}

// Register creates a local account together with its profile row.
func (service *AuthService) Register(emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrRegistrationEmailInvalid
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := service.hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
	}
	profile := models.Profile{
		Email: email,
		Theme: models.ThemeSystem,
	}
	if err := service.users.CreateWithProfile(&user, &profile); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	return user, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for unknown emails and
// wrong passwords alike.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	if !found {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) ChangePassword(userID string, currentPassword string, newPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	if currentPassword == "" || strings.TrimSpace(newPassword) == "" {
		return ErrPasswordChangeInvalid
	}

	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	if !found {
		return ErrAccountNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrNewPasswordMustDiffer
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := service.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(user.ID, hash, false); err != nil {
		return fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	return nil
}

// PasswordChangeRequired reports whether the local account was flagged by a
// password reset. Unknown ids are not flagged.
func (service *AuthService) PasswordChangeRequired(userID string) (bool, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	return found && user.MustChangePassword, nil
}

// ResetPassword replaces the password of the account and forces a change on
// next login. It is used by operators, so the policy is not applied.
func (service *AuthService) ResetPassword(emailRaw string, temporaryPassword string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrRegistrationEmailInvalid
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	if !found {
		return models.User{}, ErrAccountNotFound
	}

	hash, err := service.hashPassword(temporaryPassword)
	if err != nil {
		return models.User{}, err
	}
	if err := service.users.UpdatePassword(user.ID, hash, true); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrAccountStoreFailed, err)
	}
	user.PasswordHash = hash
	user.MustChangePassword = true
	return user, nil
}

func (service *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
