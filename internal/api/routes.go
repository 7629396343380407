package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/login", handler.ShowLoginPage)
	app.Get("/register", handler.ShowRegisterPage)

	app.Get("/", handler.AuthRequired, handler.ShowEntries)
	app.Get("/entries/new", handler.AuthRequired, handler.ShowComposer)
	app.Get("/entries/new/cancel", handler.AuthRequired, handler.CancelComposer)
	app.Post("/entries", handler.AuthRequired, handler.SaveEntry)
	app.Post("/entries/:id/delete", handler.AuthRequired, handler.DeleteEntry)

	app.Get("/analyze", handler.AuthRequired, handler.ShowAnalyze)
	app.Post("/analyze", handler.AuthRequired, handler.RunAnalyze)

	app.Post("/photos", handler.AuthRequired, handler.UploadPhoto)
	app.Get("/photos/*", handler.AuthRequired, handler.ServePhoto)

	app.Get(changePasswordPath, handler.AuthRequired, handler.ShowChangePasswordPage)
	app.Post(changePasswordPath, handler.AuthRequired, handler.ChangePassword)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	api.Get("/entries", handler.AuthRequired, handler.ListEntries)
	api.Post("/entries", handler.AuthRequired, handler.CreateEntry)
	api.Get("/entries/:id", handler.AuthRequired, handler.GetEntry)
	api.Delete("/entries/:id", handler.AuthRequired, handler.DeleteEntry)

	api.Get("/timer", handler.AuthRequired, handler.GetTimer)
	api.Post("/timer/start", handler.AuthRequired, handler.StartTimer)
	api.Post("/timer/stop", handler.AuthRequired, handler.StopTimer)
	api.Post("/timer/reset", handler.AuthRequired, handler.ResetTimer)

	api.Get("/export/csv", handler.AuthRequired, handler.ExportCSV)
	api.Get("/export/json", handler.AuthRequired, handler.ExportJSON)
}
