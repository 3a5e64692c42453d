package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
)

// ListPublicBatches is the landing list: newest cohorts first, visible to
// anyone.
func (handler *Handler) ListPublicBatches(c *fiber.Ctx) error {
	batches, err := handler.repos.Batches.ListNewestFirst()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list batches")
	}
	return c.JSON(fiber.Map{"batches": batchViews(batches)})
}

// ViewBatch serves three audiences from one route: anonymous visitors get
// the public summary, enrolled students and the assigned trainer (and
// admins) get the content listing, everyone else is refused.
func (handler *Handler) ViewBatch(c *fiber.Ctx) error {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	batch, err := handler.repos.Batches.FindByID(batchID)
	if err != nil {
		return handler.domainError(c, err)
	}

	account, err := handler.identity.ResolveSession(c.Cookies(sessionCookieName))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to resolve session")
	}
	if account == nil {
		return c.JSON(fiber.Map{"batch": batchView(&batch), "public": true})
	}

	resource, err := handler.batchResourceFor(account, &batch)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check enrollment")
	}
	if !services.CanAct(account, services.ActionViewBatchContent, resource) {
		return apiError(c, fiber.StatusForbidden, "you are not authorized to view this content")
	}

	recordings, err := handler.repos.Recordings.ListByBatchOrdered(batch.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list recordings")
	}

	recordingPayloads := make([]fiber.Map, 0, len(recordings))
	var completed map[uint]bool
	if account.Role == models.RoleStudent {
		completed, err = handler.repos.Progress.CompletedRecordingIDs(account.ID, batch.ID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to load progress")
		}
	}
	for index := range recordings {
		view := recordingView(&recordings[index])
		if completed != nil {
			view["completed"] = completed[recordings[index].ID]
		}
		recordingPayloads = append(recordingPayloads, view)
	}

	return c.JSON(fiber.Map{
		"batch":      batchView(&batch),
		"recordings": recordingPayloads,
		"can_upload": services.CanAct(account, services.ActionUploadRecording, resource),
	})
}
