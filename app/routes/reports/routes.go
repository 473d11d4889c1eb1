package reports

import "github.com/gofiber/fiber/v2"

func SetupReportRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api/reports")
	api.Get("/table", h.DownloadTableAPI)
	api.Get("/document", h.DownloadDocumentAPI)
}
