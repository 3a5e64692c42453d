package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

// UpdateProgress marks a recording completed for the signed-in student. The
// response shape is a fixed {status, message} contract consumed by the lesson
// player client: anything short of success answers with status "error".
func (handler *Handler) UpdateProgress(c *fiber.Ctx) error {
	account, err := handler.identity.ResolveSession(c.Cookies(sessionCookieName))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"status": "error", "message": "Internal error"})
	}
	if account == nil || account.Role != models.RoleStudent {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	input := progressInput{}
	if err := c.BodyParser(&input); err != nil || input.RecordingID == 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Invalid recording"})
	}

	recording, err := handler.repos.Recordings.FindByID(input.RecordingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"status": "error", "message": "Recording not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"status": "error", "message": "Internal error"})
	}

	enrolled, err := handler.repos.Enrollments.ExistsByAccountAndBatch(account.ID, recording.BatchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"status": "error", "message": "Internal error"})
	}
	if !enrolled {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	if err := handler.ledger.RecordCompletion(account.ID, recording.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"status": "error", "message": "Internal error"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Progress updated"})
}
