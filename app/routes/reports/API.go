package reports

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arnoldtRealph/intervensie/app/report"
	"github.com/arnoldtRealph/intervensie/app/routes/sessions"
	"github.com/arnoldtRealph/intervensie/app/store"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Handler carries the wired collaborators for the export endpoints.
type Handler struct {
	Store           *store.Store
	SchoolName      string
	PhotoDir        string
	SheetDir        string
	MonthlyCalendar bool
}

// DownloadTableAPI exports the filtered view as CSV.
func (h *Handler) DownloadTableAPI(c *fiber.Ctx) error {
	flt := sessions.FilterFromQuery(c, h.MonthlyCalendar)
	filtered := flt.Apply(h.Store.All(), time.Now())

	data, err := report.RenderTable(filtered)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to render table"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="intervensie_data.csv"`)
	return c.Send(data)
}

// DownloadDocumentAPI exports the filtered view as a Word report.
func (h *Handler) DownloadDocumentAPI(c *fiber.Ctx) error {
	flt := sessions.FilterFromQuery(c, h.MonthlyCalendar)
	now := time.Now()
	filtered := flt.Apply(h.Store.All(), now)

	data, err := report.BuildDocument(filtered, report.Meta{
		Title:       h.SchoolName,
		FilterDesc:  flt.Describe(),
		GeneratedAt: now,
		PhotoDir:    h.PhotoDir,
		SheetDir:    h.SheetDir,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to render document"})
	}

	c.Set(fiber.HeaderContentType, docxMIME)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="intervensie_verslag.docx"`)
	return c.Send(data)
}
