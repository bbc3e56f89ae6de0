package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

const maxFullNameLength = 120

var (
	ErrInvalidFullName    = errors.New("invalid full name")
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileStoreFailed = errors.New("profile store failed")
)

type ProfileRepository interface {
	FindByID(profileID string) (models.Profile, bool, error)
	Ensure(profileID string, email string) (models.Profile, error)
	UpdateFullName(profileID string, fullName string) error
	UpdateTheme(profileID string, theme string) error
}

type ProfileService struct {
	profiles ProfileRepository
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func NormalizeFullName(raw string) (string, error) {
	fullName := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(fullName)
	if length == 0 || length > maxFullNameLength {
		return "", ErrInvalidFullName
	}
	return fullName, nil
}

// Ensure creates the profile row on first sight of a user id.
func (service *ProfileService) Ensure(userID string, email string) (models.Profile, error) {
	profile, err := service.profiles.Ensure(userID, strings.TrimSpace(email))
	if err != nil {
		return models.Profile{}, fmt.Errorf("%w: %w", ErrProfileStoreFailed, err)
	}
	return profile, nil
}

func (service *ProfileService) Get(userID string) (models.Profile, error) {
	profile, found, err := service.profiles.FindByID(userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("%w: %w", ErrProfileStoreFailed, err)
	}
	if !found {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, nil
}

func (service *ProfileService) UpdateFullName(userID string, raw string) (models.Profile, error) {
	fullName, err := NormalizeFullName(raw)
	if err != nil {
		return models.Profile{}, err
	}
	if err := service.profiles.UpdateFullName(userID, fullName); err != nil {
		return models.Profile{}, fmt.Errorf("%w: %w", ErrProfileStoreFailed, err)
	}
	return service.Get(userID)
}

func (service *ProfileService) UpdateTheme(userID string, raw string) (models.Profile, error) {
	theme := strings.ToLower(strings.TrimSpace(raw))
	if !models.IsValidTheme(theme) {
		return models.Profile{}, ErrInvalidTheme
	}
	if err := service.profiles.UpdateTheme(userID, theme); err != nil {
		return models.Profile{}, fmt.Errorf("%w: %w", ErrProfileStoreFailed, err)
	}
	return service.Get(userID)
}
