package sessions

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arnoldtRealph/intervensie/app/models"
	"github.com/arnoldtRealph/intervensie/app/report"
)

func SetupSessionRoutes(app *fiber.App, h *Handler) {
	app.Get("/", h.IndexPage)

	api := app.Group("/api/sessions")
	api.Post("/", h.CreateSessionAPI)
	api.Get("/", h.ListSessionsAPI)
	api.Delete("/:ordinal", h.DeleteSessionAPI)
}

func (h *Handler) IndexPage(c *fiber.Ctx) error {
	flt := FilterFromQuery(c, h.MonthlyCalendar)
	now := time.Now()

	all := h.Store.All()
	views := []sessionView{}
	filtered := []models.Session{}
	for i := range all {
		if flt.Match(&all[i], now) {
			views = append(views, viewOf(i, all[i]))
			filtered = append(filtered, all[i])
		}
	}

	return c.Render("index", fiber.Map{
		"Title":       "Intervensie Klasse",
		"CurrentPage": "sessions",
		"sessions":    views,
		"summary":     report.Summarize(filtered),
		"window":      string(flt.Window),
		"windows": []models.Window{
			models.WindowAll, models.WindowWeekly, models.WindowMonthly,
			models.WindowQuarterly, models.WindowYearly,
		},
		"grades": models.GradeLabels,
		"filter": flt.Describe(),
	})
}
