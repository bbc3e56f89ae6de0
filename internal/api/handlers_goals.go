package api

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/metrics"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"github.com/terraincognita07/sleeptrack/internal/validation"
)

// flexibleHours accepts 7.5 as well as "7.5".
type flexibleHours float64

func (hours *flexibleHours) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(string(trimmed))
		if err != nil {
			return err
		}
		trimmed = []byte(strings.TrimSpace(unquoted))
	}
	value, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return errors.New("targetHours must be a number")
	}
	*hours = flexibleHours(value)
	return nil
}

type setGoalRequest struct {
	TargetHours *flexibleHours `json:"targetHours" validate:"required,gte=1,lte=24"`
}

func (handler *Handler) GetGoal(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	goal, found, err := handler.goalService.FindGoal(identity.UserID)
	if err != nil {
		return internalError(c, err, "failed to fetch goal")
	}
	if !found {
		return c.JSON(nil)
	}
	return c.JSON(goal)
}

func (handler *Handler) SetGoal(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	var payload setGoalRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	goal, created, err := handler.goalService.SetGoal(identity.UserID, float64(*payload.TargetHours))
	if err != nil {
		if errors.Is(err, services.ErrTargetHoursOutOfRange) {
			return issueError(c, validation.Issue{
				Field:   "targetHours",
				Tag:     "range",
				Param:   "1-24",
				Message: "targetHours must be between 1 and 24",
			})
		}
		return internalError(c, err, "failed to save goal")
	}

	if created {
		metrics.GoalUpserts.WithLabelValues("created").Inc()
		return c.Status(fiber.StatusCreated).JSON(goal)
	}
	metrics.GoalUpserts.WithLabelValues("updated").Inc()
	return c.JSON(goal)
}

func (handler *Handler) GoalProgress(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)
	location, ok := handler.requestLocation(c)
	if !ok {
		return invalidTimezone(c)
	}

	labeler := handler.i18n.WeekdayLabeler(handler.requestLanguage(c))
	buckets, err := handler.sleepService.WeeklyBuckets(identity.UserID, handler.now(), location, labeler)
	if err != nil {
		return internalError(c, err, "failed to fetch weekly sleep")
	}

	progress, hasGoal, err := handler.goalService.Progress(identity.UserID, buckets)
	if err != nil {
		return internalError(c, err, "failed to fetch goal")
	}
	if !hasGoal {
		return c.JSON(nil)
	}
	return c.JSON(progress)
}
