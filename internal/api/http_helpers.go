package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/logging"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"github.com/terraincognita07/sleeptrack/internal/validation"
)

var errEmptyBody = errors.New("empty request body")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func validationError(c *fiber.Ctx, verr *validation.RequestValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  verr.Error(),
		"issues": verr.Issues(),
	})
}

func issueError(c *fiber.Ctx, issue validation.Issue) error {
	return validationError(c, validation.NewRequestValidationError(issue))
}

// internalError logs the cause with the request id and answers with a
// generic message.
func internalError(c *fiber.Ctx, err error, message string) error {
	logging.Ctx(c.UserContext()).Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(message)
	return apiError(c, fiber.StatusInternalServerError, message)
}

// bindJSON decodes the body with the app's JSON decoder regardless of the
// Content-Type header and validates the result. ok is false when a 400
// response has already been written.
func bindJSON(c *fiber.Ctx, payload any) (bool, error) {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return false, apiError(c, fiber.StatusBadRequest, errEmptyBody.Error())
	}
	if err := c.App().Config().JSONDecoder(body, payload); err != nil {
		return false, apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if verr := validation.ValidateStruct(payload); verr != nil {
		return false, validationError(c, verr)
	}
	return true, nil
}

// requestLocation resolves the optional tz query parameter.
func (handler *Handler) requestLocation(c *fiber.Ctx) (*time.Location, bool) {
	name := strings.TrimSpace(c.Query("tz"))
	if name == "" {
		return handler.location, true
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return location, true
}

func invalidTimezone(c *fiber.Ctx) error {
	return issueError(c, validation.Issue{
		Field:   "tz",
		Tag:     "timezone",
		Message: "tz must be an IANA time zone",
	})
}

func (handler *Handler) requestLanguage(c *fiber.Ctx) string {
	return handler.i18n.Resolve(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))
}

// parseLimit reads the limit query parameter. Values above the maximum are
// capped; missing means the default.
func parseLimit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.DefaultRecentLogLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return services.ClampRecentLogLimit(limit), true
}

func parseInstant(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
}
