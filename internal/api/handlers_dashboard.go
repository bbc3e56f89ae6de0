package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	identity, _ := currentIdentity(c)
	location, ok := handler.requestLocation(c)
	if !ok {
		return invalidTimezone(c)
	}

	labeler := handler.i18n.WeekdayLabeler(handler.requestLanguage(c))
	dashboard, err := handler.dashboardService.Build(identity.UserID, handler.now(), location, labeler)
	if err != nil {
		return internalError(c, err, "failed to build dashboard")
	}
	return c.JSON(dashboard)
}
