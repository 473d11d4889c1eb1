package main

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/arnoldtRealph/intervensie/app/config"
	"github.com/arnoldtRealph/intervensie/app/mirror"
	"github.com/arnoldtRealph/intervensie/app/routes/reports"
	"github.com/arnoldtRealph/intervensie/app/routes/sessions"
	"github.com/arnoldtRealph/intervensie/app/routes/settings"
	"github.com/arnoldtRealph/intervensie/app/store"
)

// customErrorHandler JSONs API errors and renders an error page otherwise.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	return c.Status(code).Render("error", fiber.Map{
		"Title":        "Fout - Intervensie Klasse",
		"ErrorCode":    code,
		"ErrorMessage": err.Error(),
	})
}

func main() {
	// The register belongs to a South African school; dates in the table
	// are local calendar dates.
	loc, err := time.LoadLocation("Africa/Johannesburg")
	if err != nil {
		log.Printf("Warning: Failed to load Africa/Johannesburg location, falling back to UTC+2: %v", err)
		time.Local = time.FixedZone("SAST", 2*60*60)
	} else {
		time.Local = loc
	}

	config.Init()
	cfg := config.Get()

	st, err := store.Open(cfg.TableFile, store.Policy{RequireSheet: cfg.RequireSheet})
	if err != nil {
		log.Fatalf("Failed to open session table: %v", err)
	}
	log.Printf("Session table loaded: %d records from %s", st.Len(), cfg.TableFile)

	photos, err := store.NewBucket(cfg.PhotoDir)
	if err != nil {
		log.Fatalf("Failed to open photo bucket: %v", err)
	}
	sheets, err := store.NewBucket(cfg.SheetDir)
	if err != nil {
		log.Fatalf("Failed to open attendance-sheet bucket: %v", err)
	}

	m := mirror.New(cfg.GitHub)

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	sessions.SetupSessionRoutes(app, &sessions.Handler{
		Store:           st,
		Photos:          photos,
		Sheets:          sheets,
		Mirror:          m,
		TablePath:       cfg.TableFile,
		MonthlyCalendar: cfg.MonthlyCalendar,
	})

	reports.SetupReportRoutes(app, &reports.Handler{
		Store:           st,
		SchoolName:      cfg.SchoolName,
		PhotoDir:        cfg.PhotoDir,
		SheetDir:        cfg.SheetDir,
		MonthlyCalendar: cfg.MonthlyCalendar,
	})

	settings.SetupSettingsRoutes(app, &settings.Handler{
		Mirror:    m,
		TablePath: cfg.TableFile,
	})

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(app.Listen(cfg.ListenAddr))
}
