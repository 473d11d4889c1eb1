package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/arnoldtRealph/intervensie/app/mirror"
)

// Handler exposes the mirror configuration and a manual push.
type Handler struct {
	Mirror    *mirror.Mirror
	TablePath string
}

func (h *Handler) SyncStatusAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"configured": h.Mirror.Enabled(),
		"remote":     h.Mirror.Remote(),
	})
}

// SyncPushAPI pushes the local table to GitHub on demand. The local file
// stays the source of truth whatever the outcome.
func (h *Handler) SyncPushAPI(c *fiber.Ctx) error {
	err := h.Mirror.Push(c.UserContext(), h.TablePath)
	switch {
	case errors.Is(err, mirror.ErrDisabled):
		return c.Status(400).JSON(fiber.Map{"error": "Set GITHUB_TOKEN and GITHUB_REPO before pushing"})
	case err != nil:
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.JSON(fiber.Map{"message": "CSV pushed to GitHub"})
	}
}
