package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/health", handler.Health)
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	if handler.localAccounts() {
		auth := api.Group("/auth")
		auth.Post("/register", handler.RateLimited, handler.Register)
		auth.Post("/login", handler.RateLimited, handler.Login)
		auth.Post("/change-password", handler.RateLimited, handler.AuthRequired, handler.ChangePassword)
	}

	sleepLogs := api.Group("/sleep-logs", handler.AuthRequired)
	sleepLogs.Get("", handler.ListSleepLogs)
	sleepLogs.Post("", handler.CreateSleepLog)
	sleepLogs.Get("/weekly", handler.WeeklySleep)
	sleepLogs.Get("/today", handler.TodaySleep)
	sleepLogs.Get("/export", handler.ExportSleepLogs)

	goals := api.Group("/goals", handler.AuthRequired)
	goals.Get("", handler.GetGoal)
	goals.Post("", handler.SetGoal)
	goals.Get("/progress", handler.GoalProgress)

	api.Get("/dashboard", handler.AuthRequired, handler.Dashboard)

	api.Get("/profile", handler.AuthRequired, handler.GetProfile)
	api.Patch("/profile", handler.AuthRequired, handler.UpdateProfile)
	api.Get("/preferences", handler.AuthRequired, handler.GetPreferences)
	api.Put("/preferences", handler.AuthRequired, handler.UpdatePreferences)
}
