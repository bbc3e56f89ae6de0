package api

import (
	"bytes"
	"encoding/csv"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/metrics"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"github.com/terraincognita07/sleeptrack/internal/validation"
)

type createSleepLogRequest struct {
	SleepTime string `json:"sleepTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	WakeTime  string `json:"wakeTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func (handler *Handler) ListSleepLogs(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	limit, ok := parseLimit(c.Query("limit"))
	if !ok {
		return issueError(c, validation.Issue{
			Field:   "limit",
			Tag:     "min",
			Param:   "1",
			Message: "limit must be a positive integer",
		})
	}

	logs, err := handler.sleepService.ListRecent(identity.UserID, limit)
	if err != nil {
		return internalError(c, err, "failed to fetch sleep logs")
	}
	return c.JSON(logs)
}

func (handler *Handler) CreateSleepLog(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)

	var payload createSleepLogRequest
	if ok, err := bindJSON(c, &payload); !ok {
		return err
	}

	sleepTime, err := parseInstant(payload.SleepTime)
	if err != nil {
		return issueError(c, validation.Issue{Field: "sleepTime", Tag: "datetime", Message: "sleepTime must be an ISO-8601 date-time with offset"})
	}
	wakeTime, err := parseInstant(payload.WakeTime)
	if err != nil {
		return issueError(c, validation.Issue{Field: "wakeTime", Tag: "datetime", Message: "wakeTime must be an ISO-8601 date-time with offset"})
	}

	entry, err := handler.sleepService.CreateLog(identity.UserID, sleepTime, wakeTime)
	if err != nil {
		if errors.Is(err, services.ErrWakeNotAfterSleep) {
			return issueError(c, validation.Issue{
				Field:   "wakeTime",
				Tag:     "gtfield",
				Param:   "sleepTime",
				Message: "wakeTime must be after sleepTime",
			})
		}
		return internalError(c, err, "failed to save sleep log")
	}

	metrics.SleepLogsCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) WeeklySleep(c *fiber.Ctx) error {
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
	return c.JSON(buckets)
}

func (handler *Handler) TodaySleep(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)
	location, ok := handler.requestLocation(c)
	if !ok {
		return invalidTimezone(c)
	}

	summary, err := handler.sleepService.TodaySummary(identity.UserID, handler.now(), location)
	if err != nil {
		return internalError(c, err, "failed to fetch today's sleep")
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportSleepLogs(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)
	location, ok := handler.requestLocation(c)
	if !ok {
		return invalidTimezone(c)
	}

	logs, err := handler.sleepService.ExportLogs(identity.UserID)
	if err != nil {
		return internalError(c, err, "failed to fetch sleep logs")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.SleepLogCSVHeaders); err != nil {
		return internalError(c, err, "failed to build export")
	}
	if err := writer.WriteAll(services.BuildSleepLogCSVRows(logs, location)); err != nil {
		return internalError(c, err, "failed to build export")
	}

	now := handler.now().In(location)
	filename := handler.i18n.Translatef(handler.requestLanguage(c), "export.filename", now.Format("2006-01-02"))
	setExportAttachmentHeaders(c, "text/csv; charset=utf-8", filename)
	return c.Send(output.Bytes())
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
}
