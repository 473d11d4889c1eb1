package sessions

import (
	"errors"
	"log"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/arnoldtRealph/intervensie/app/mirror"
	"github.com/arnoldtRealph/intervensie/app/models"
	"github.com/arnoldtRealph/intervensie/app/report"
	"github.com/arnoldtRealph/intervensie/app/store"
)

var validate = validator.New()

// Handler carries the wired collaborators for the session endpoints.
type Handler struct {
	Store           *store.Store
	Photos          store.Bucket
	Sheets          store.Bucket
	Mirror          *mirror.Mirror
	TablePath       string
	MonthlyCalendar bool
}

type sessionRequest struct {
	Datum    string `form:"datum" validate:"required"`
	Graad    string `form:"graad"`
	Vak      string `form:"vak" validate:"required"`
	Tema     string `form:"tema" validate:"required"`
	Begintyd string `form:"begintyd"`
	Eindtyd  string `form:"eindtyd"`
	Genooi   int    `form:"totaal_genooi" validate:"min=1"`
	Opgedaag int    `form:"totaal_opgedaag" validate:"min=0"`
	Opvoeder string `form:"opvoeder" validate:"required"`
}

// sessionView is a session plus its store ordinal and computed figures.
type sessionView struct {
	Ordinal       int     `json:"ordinal"`
	Datum         string  `json:"datum"`
	OpkomsPersent float64 `json:"opkoms_persent"`
	models.Session
}

func viewOf(ordinal int, rec models.Session) sessionView {
	return sessionView{
		Ordinal:       ordinal,
		Datum:         rec.DateLabel(),
		OpkomsPersent: rec.Ratio(),
		Session:       rec,
	}
}

// FilterFromQuery builds the report filter from request query parameters.
// A category parameter that is present but empty ("?vak=") is an empty
// accepted set and matches nothing; an absent parameter does not filter.
func FilterFromQuery(c *fiber.Ctx, monthlyCalendar bool) report.Filter {
	flt := report.Filter{
		Window:          models.ParseWindow(c.Query("window")),
		MonthlyCalendar: monthlyCalendar,
	}

	args := c.Context().QueryArgs()
	for _, field := range []string{"vak", "graad", "opvoeder"} {
		if !args.Has(field) {
			continue
		}
		accepted := map[string]bool{}
		for _, raw := range args.PeekMulti(field) {
			for _, v := range strings.Split(string(raw), ",") {
				if v = strings.TrimSpace(v); v != "" {
					accepted[v] = true
				}
			}
		}
		if flt.Categories == nil {
			flt.Categories = map[string]map[string]bool{}
		}
		flt.Categories[field] = accepted
	}
	return flt
}

func (h *Handler) CreateSessionAPI(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing or invalid fields: " + err.Error()})
	}

	date, err := time.Parse(models.DateFormat, req.Datum)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	// Artifacts are written before the append so the record can reference
	// them; a rejected record removes them again.
	var saved []func()
	cleanup := func() {
		for _, f := range saved {
			f()
		}
	}

	photoRef := ""
	if fh, err := c.FormFile("foto"); err == nil && fh != nil {
		photoRef, err = h.saveUpload(h.Photos, fh)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to store photo"})
		}
		ref := photoRef
		saved = append(saved, func() { _ = h.Photos.Remove(ref) })
	}

	var sheetRefs []string
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		for _, fh := range mf.File["presensielys"] {
			ref, err := h.saveUpload(h.Sheets, fh)
			if err != nil {
				cleanup()
				return c.Status(500).JSON(fiber.Map{"error": "Failed to store attendance sheet"})
			}
			sheetRefs = append(sheetRefs, ref)
			saved = append(saved, func() { _ = h.Sheets.Remove(ref) })
		}
	}

	rec := models.Session{
		Date:        date,
		Grade:       req.Graad,
		Subject:     strings.TrimSpace(req.Vak),
		Theme:       strings.TrimSpace(req.Tema),
		StartTime:   req.Begintyd,
		EndTime:     req.Eindtyd,
		Invited:     req.Genooi,
		Attended:    req.Opgedaag,
		Facilitator: strings.TrimSpace(req.Opvoeder),
		PhotoRef:    photoRef,
		SheetRefs:   sheetRefs,
	}

	ordinal, err := h.Store.Append(rec)
	if err != nil {
		cleanup()
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return c.Status(400).JSON(fiber.Map{"error": verr.Error(), "field": verr.Field})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save session"})
	}

	return c.JSON(fiber.Map{
		"message": "Session saved",
		"ordinal": ordinal,
		"session": viewOf(ordinal, rec),
		"sync":    h.push(c),
	})
}

func (h *Handler) ListSessionsAPI(c *fiber.Ctx) error {
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

	return c.JSON(fiber.Map{
		"sessions": views,
		"count":    len(views),
		"summary":  report.Summarize(filtered),
		"window":   flt.Window,
		"filter":   flt.Describe(),
	})
}

func (h *Handler) DeleteSessionAPI(c *fiber.Ctx) error {
	ordinal, err := strconv.Atoi(c.Params("ordinal"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Ordinal must be an integer"})
	}

	removed, err := h.Store.Delete(ordinal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete session"})
	}

	// Cascade to owned artifacts; already-missing files are fine.
	if removed.PhotoRef != "" {
		if err := h.Photos.Remove(removed.PhotoRef); err != nil {
			log.Printf("Failed to remove photo %s: %v", removed.PhotoRef, err)
		}
	}
	for _, ref := range removed.SheetRefs {
		if err := h.Sheets.Remove(ref); err != nil {
			log.Printf("Failed to remove attendance sheet %s: %v", ref, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Session deleted",
		"removed": viewOf(ordinal, removed),
		"sync":    h.push(c),
	})
}

func (h *Handler) saveUpload(b store.Bucket, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return b.Save(fh.Filename, f)
}

// push mirrors the table after a successful mutation. The outcome is
// reported to the caller but a failure never affects the local write.
func (h *Handler) push(c *fiber.Ctx) string {
	err := h.Mirror.Push(c.UserContext(), h.TablePath)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, mirror.ErrDisabled):
		return "skipped"
	default:
		log.Printf("GitHub sync failed: %v", err)
		return "failed: " + err.Error()
	}
}
