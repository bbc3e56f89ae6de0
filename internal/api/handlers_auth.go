package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/logging"
	"github.com/terraincognita07/sleeptrack/internal/models"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"github.com/terraincognita07/sleeptrack/internal/validation"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type sessionResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        models.User `json:"user"`
}

var weakPasswordIssue = validation.Issue{
	Field:   "password",
	Tag:     "password_policy",
	Message: "password must be at least 8 characters and contain an upper-case letter, a lower-case letter and a digit",
}

var longPasswordIssue = validation.Issue{
	Field:   "password",
	Tag:     "max",
	Param:   "72",
	Message: "password must be at most 72 bytes",
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	if !handler.allowRegistration {
		return apiError(c, fiber.StatusForbidden, "registration disabled")
	}

	var payload credentialsRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	user, err := handler.authService.Register(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRegistrationEmailInvalid):
			return issueError(c, validation.Issue{Field: "email", Tag: "email", Message: "email must be a valid email address"})
		case errors.Is(err, services.ErrWeakPassword):
			return issueError(c, weakPasswordIssue)
		case errors.Is(err, services.ErrPasswordTooLong):
			return issueError(c, longPasswordIssue)
		case errors.Is(err, services.ErrEmailTaken):
			return apiError(c, fiber.StatusConflict, "email already registered")
		default:
			return internalError(c, err, "failed to create account")
		}
	}

	logging.Ctx(c.UserContext()).Info().Str("user_id", user.ID).Msg("account registered")
	return handler.respondWithSession(c, fiber.StatusCreated, user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var payload credentialsRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	user, err := handler.authService.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return internalError(c, err, "failed to sign in")
	}

	handler.authLimiter.reset(requestLimiterKey(c))
	return handler.respondWithSession(c, fiber.StatusOK, user)
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	var payload changePasswordRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	err := handler.authService.ChangePassword(identity.UserID, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCurrentPassword):
			return issueError(c, validation.Issue{Field: "currentPassword", Tag: "password", Message: "current password is incorrect"})
		case errors.Is(err, services.ErrNewPasswordMustDiffer):
			return issueError(c, validation.Issue{Field: "newPassword", Tag: "nefield", Param: "currentPassword", Message: "newPassword must differ from currentPassword"})
		case errors.Is(err, services.ErrWeakPassword):
			issue := weakPasswordIssue
			issue.Field = "newPassword"
			return issueError(c, issue)
		case errors.Is(err, services.ErrPasswordTooLong):
			issue := longPasswordIssue
			issue.Field = "newPassword"
			return issueError(c, issue)
		case errors.Is(err, services.ErrPasswordChangeInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid password change")
		case errors.Is(err, services.ErrAccountNotFound):
			return apiError(c, fiber.StatusNotFound, "account not found")
		default:
			return internalError(c, err, "failed to change password")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) respondWithSession(c *fiber.Ctx, status int, user models.User) error {
	token, _, err := handler.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return internalError(c, err, "failed to issue token")
	}

	return c.Status(status).JSON(sessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(handler.issuer.TTL().Seconds()),
		User:        user,
	})
}
