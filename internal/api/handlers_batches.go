package api

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
)

func (handler *Handler) CreateBatch(c *fiber.Ctx) error {
	input := batchInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apiError(c, fiber.StatusBadRequest, "batch name is required")
	}

	taken, err := handler.repos.Batches.ExistsByName(input.Name)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create batch")
	}
	if taken {
		return handler.domainError(c, services.ErrDuplicateBatchName)
	}

	batch := models.Batch{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}
	if err := handler.repos.Batches.Create(&batch); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create batch")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "batch": batchView(&batch)})
}

func (handler *Handler) UpdateBatch(c *fiber.Ctx) error {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid batch id")
	}
	input := batchInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apiError(c, fiber.StatusBadRequest, "batch name is required")
	}

	batch, err := handler.repos.Batches.FindByID(batchID)
	if err != nil {
		return handler.domainError(c, err)
	}

	taken, err := handler.repos.Batches.ExistsOtherWithName(input.Name, batch.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update batch")
	}
	if taken {
		return handler.domainError(c, services.ErrDuplicateBatchName)
	}

	batch.Name = input.Name
	batch.Description = input.Description
	if err := handler.repos.Batches.Save(&batch); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update batch")
	}
	return c.JSON(fiber.Map{"ok": true, "batch": batchView(&batch)})
}

// DeleteBatch cascades: enrollments, recordings, progress rows, and the
// batch's blob directory all go with it.
func (handler *Handler) DeleteBatch(c *fiber.Ctx) error {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid batch id")
	}
	if _, err := handler.repos.Batches.FindByID(batchID); err != nil {
		return handler.domainError(c, err)
	}

	if err := handler.repos.Batches.DeleteCascade(batchID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete batch")
	}
	if err := handler.blobs.DeletePrefix(storage.RecordingPrefix(batchID)); err != nil {
		// Rows are gone; a leftover directory is only noise.
		log.Printf("delete batch %d blob directory: %v", batchID, err)
	}
	return c.JSON(fiber.Map{"ok": true, "message": "batch deleted"})
}

// ChangeBatchTrainer assigns, replaces, or unassigns ("none") the batch's
// trainer.
func (handler *Handler) ChangeBatchTrainer(c *fiber.Ctx) error {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid batch id")
	}
	input := changeTrainerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	batch, err := handler.repos.Batches.FindByID(batchID)
	if err != nil {
		return handler.domainError(c, err)
	}

	selection := strings.TrimSpace(input.TrainerID)
	if selection == "none" {
		if batch.TrainerProfileID == nil {
			return c.JSON(fiber.Map{"ok": true, "message": "batch has no trainer assigned"})
		}
		if err := handler.repos.Batches.AssignTrainer(batch.ID, nil); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to unassign trainer")
		}
		return c.JSON(fiber.Map{"ok": true, "message": "trainer unassigned"})
	}

	trainerID, err := strconv.ParseUint(selection, 10, 32)
	if err != nil || trainerID == 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid trainer selection")
	}
	trainer, err := handler.repos.Trainers.FindByID(uint(trainerID))
	if err != nil {
		return handler.domainError(c, err)
	}

	if batch.TrainerProfileID != nil && *batch.TrainerProfileID == trainer.ID {
		return c.JSON(fiber.Map{
			"ok":      true,
			"message": fmt.Sprintf("trainer %s is already assigned to this batch", trainer.Name),
		})
	}

	replaced := batch.TrainerProfileID != nil
	assignedID := trainer.ID
	if err := handler.repos.Batches.AssignTrainer(batch.ID, &assignedID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to assign trainer")
	}

	message := fmt.Sprintf("trainer %s assigned to batch %s", trainer.Name, batch.Name)
	if replaced && batch.TrainerProfile != nil {
		message = fmt.Sprintf(
			"trainer %s has been replaced by %s for batch %s",
			batch.TrainerProfile.Name, trainer.Name, batch.Name,
		)
	}
	return c.JSON(fiber.Map{"ok": true, "message": message})
}

func (handler *Handler) ListBatches(c *fiber.Ctx) error {
	batches, err := handler.repos.Batches.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list batches")
	}
	return c.JSON(fiber.Map{"batches": batchViews(batches)})
}

// BatchEnrollments lists a batch's roster with per-student progress. Only
// admins and the assigned trainer may see it.
func (handler *Handler) BatchEnrollments(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	batch, err := handler.repos.Batches.FindByID(batchID)
	if err != nil {
		return handler.domainError(c, err)
	}

	resource, err := handler.batchResourceFor(account, &batch)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check enrollment")
	}
	if !services.CanAct(account, services.ActionViewEnrollments, resource) {
		return apiError(c, fiber.StatusForbidden, "you are not authorized to view enrollments")
	}

	enrollments, err := handler.repos.Enrollments.ListByBatchNewestFirst(batch.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list enrollments")
	}

	payloads := make([]fiber.Map, 0, len(enrollments))
	for index := range enrollments {
		enrollment := &enrollments[index]
		completed, total, err := handler.ledger.ComputeProgress(enrollment.AccountID, batch.ID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to compute progress")
		}
		payload := fiber.Map{
			"id":          enrollment.ID,
			"enrolled_at": enrollment.EnrolledAt,
			"progress":    fmt.Sprintf("%d / %d", completed, total),
		}
		if enrollment.Account != nil {
			payload["student"] = accountView(enrollment.Account)
		}
		payloads = append(payloads, payload)
	}

	return c.JSON(fiber.Map{"batch": batchView(&batch), "enrollments": payloads})
}
