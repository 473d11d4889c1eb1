package settings

import "github.com/gofiber/fiber/v2"

func SetupSettingsRoutes(app *fiber.App, h *Handler) {
	app.Get("/settings", h.SettingsPage)

	api := app.Group("/api/settings")
	api.Get("/sync", h.SyncStatusAPI)
	api.Post("/sync/push", h.SyncPushAPI)
}

func (h *Handler) SettingsPage(c *fiber.Ctx) error {
	return c.Render("settings", fiber.Map{
		"Title":       "Instellings - Intervensie Klasse",
		"CurrentPage": "settings",
		"configured":  h.Mirror.Enabled(),
		"remote":      h.Mirror.Remote(),
	})
}
