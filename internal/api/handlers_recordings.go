package api

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
	"gorm.io/gorm"
)

// UploadRecording accepts a multipart "file" plus optional "notes" for a
// batch. Only the batch's assigned trainer may upload; admins are
// deliberately excluded.
func (handler *Handler) UploadRecording(c *fiber.Ctx) error {
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
		return apiError(c, fiber.StatusInternalServerError, "failed to check permissions")
	}
	if !services.CanAct(account, services.ActionUploadRecording, resource) {
		return apiError(c, fiber.StatusForbidden, "only the assigned trainer can upload to this batch")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "a file is required")
	}
	if !services.AllowedFile(fileHeader.Filename) {
		return handler.domainError(c, services.ErrFileTypeNotAllowed)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer file.Close()

	storedName := services.StoredFilename(fileHeader.Filename)
	if err := handler.blobs.Save(storage.RecordingKey(batch.ID, storedName), file); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to store upload")
	}

	recording := models.Recording{
		Filename:     storedName,
		OriginalName: fileHeader.Filename,
		Notes:        c.FormValue("notes"),
		BatchID:      batch.ID,
		UploadTime:   time.Now(),
	}
	if err := handler.repos.Recordings.Create(&recording); err != nil {
		// The row failed; do not leave the blob orphaned.
		if cleanupErr := handler.blobs.Delete(storage.RecordingKey(batch.ID, storedName)); cleanupErr != nil {
			log.Printf("cleanup orphaned upload %s: %v", storedName, cleanupErr)
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to save recording")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":        true,
		"recording": recordingView(&recording),
		"message":   fmt.Sprintf("recording uploaded to %s", batch.Name),
	})
}

// DownloadRecording streams a stored blob to anyone the policy lets view the
// batch's content. The stored filename in the path is the lookup key; the
// browser sees the original name.
func (handler *Handler) DownloadRecording(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	batchID, err := parseIDParam(c, "batchID")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid batch id")
	}
	filename := c.Params("filename")

	batch, err := handler.repos.Batches.FindByID(batchID)
	if err != nil {
		return handler.domainError(c, err)
	}
	resource, err := handler.batchResourceFor(account, &batch)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check permissions")
	}
	if !services.CanAct(account, services.ActionViewBatchContent, resource) {
		return apiError(c, fiber.StatusForbidden, "you are not authorized to access this batch")
	}

	recording, err := handler.repos.Recordings.FindByBatchAndFilename(batch.ID, filename)
	if err != nil {
		return handler.domainError(c, err)
	}

	blob, err := handler.blobs.Open(storage.RecordingKey(batch.ID, recording.Filename))
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to open recording")
	}

	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", recording.OriginalName))
	return c.SendStream(blob)
}

// DeleteRecording removes the row, its progress records, and the blob. Same
// gate as upload: assigned trainer only.
func (handler *Handler) DeleteRecording(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordingID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid recording id")
	}

	recording, err := handler.repos.Recordings.FindByID(recordingID)
	if err != nil {
		return handler.domainError(c, err)
	}
	batch, err := handler.repos.Batches.FindByID(recording.BatchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Orphaned recording row; only the assigned trainer gate is moot.
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load batch")
	}

	resource, err := handler.batchResourceFor(account, &batch)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check permissions")
	}
	if !services.CanAct(account, services.ActionDeleteRecording, resource) {
		return apiError(c, fiber.StatusForbidden, "only the assigned trainer can delete this recording")
	}

	if err := handler.repos.Recordings.DeleteWithProgress(recording.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete recording")
	}
	if err := handler.blobs.Delete(storage.RecordingKey(batch.ID, recording.Filename)); err != nil &&
		!errors.Is(err, storage.ErrNotFound) {
		log.Printf("delete recording %d blob: %v", recording.ID, err)
	}
	return c.JSON(fiber.Map{"ok": true, "message": "recording deleted"})
}
