package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"github.com/terraincognita07/sleeptrack/internal/validation"
)

type updateProfileRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
}

type preferencesRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

type preferencesResponse struct {
	Theme string `json:"theme"`
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	profile, err := handler.profileService.Get(identity.UserID)
	if err != nil {
		return internalError(c, err, "failed to fetch profile")
	}
	return c.JSON(profile)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	var payload updateProfileRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	profile, err := handler.profileService.UpdateFullName(identity.UserID, payload.FullName)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFullName) {
			return issueError(c, validation.Issue{
				Field:   "fullName",
				Tag:     "max",
				Param:   "120",
				Message: "fullName must be 1 to 120 characters",
			})
		}
		return internalError(c, err, "failed to update profile")
	}
	return c.JSON(profile)
}

func (handler *Handler) GetPreferences(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	profile, err := handler.profileService.Get(identity.UserID)
	if err != nil {
		return internalError(c, err, "failed to fetch preferences")
	}
	return c.JSON(preferencesResponse{Theme: profile.Theme})
}

func (handler *Handler) UpdatePreferences(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	var payload preferencesRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	profile, err := handler.profileService.UpdateTheme(identity.UserID, payload.Theme)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTheme) {
			return issueError(c, validation.Issue{
				Field:   "theme",
				Tag:     "oneof",
				Param:   "light dark system",
				Message: "theme must be one of: light dark system",
			})
		}
		return internalError(c, err, "failed to update preferences")
	}
	return c.JSON(preferencesResponse{Theme: profile.Theme})
}
