package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) EnrollStudent(c *fiber.Ctx) error {
	input := enrollInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.AccountID == 0 || input.BatchID == 0 {
		return apiError(c, fiber.StatusBadRequest, "student and batch are required")
	}

	account, err := handler.repos.Accounts.FindByID(input.AccountID)
	if err != nil {
		return handler.domainError(c, err)
	}
	if account.Role != models.RoleStudent {
		return apiError(c, fiber.StatusBadRequest, "only students can be enrolled")
	}
	batch, err := handler.repos.Batches.FindByID(input.BatchID)
	if err != nil {
		return handler.domainError(c, err)
	}

	_, already, err := handler.ledger.Enroll(account.ID, batch.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to enroll student")
	}
	if already {
		return c.JSON(fiber.Map{
			"ok":      true,
			"message": fmt.Sprintf("%s is already enrolled in %s", account.Name, batch.Name),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"message": fmt.Sprintf("%s enrolled in %s", account.Name, batch.Name),
	})
}

func (handler *Handler) RemoveEnrollment(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}
	if _, err := handler.repos.Enrollments.FindByID(enrollmentID); err != nil {
		return handler.domainError(c, err)
	}
	if err := handler.repos.Enrollments.Delete(enrollmentID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to remove enrollment")
	}
	return c.JSON(fiber.Map{"ok": true, "message": "enrollment removed"})
}

// StudentBatches lists the signed-in student's enrollments with progress.
func (handler *Handler) StudentBatches(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if account.Role != models.RoleStudent {
		return apiError(c, fiber.StatusForbidden, "students only")
	}

	enrollments, err := handler.repos.Enrollments.ListByAccount(account.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list enrollments")
	}

	payloads := make([]fiber.Map, 0, len(enrollments))
	for index := range enrollments {
		enrollment := &enrollments[index]
		if enrollment.Batch == nil {
			continue
		}
		completed, total, err := handler.ledger.ComputeProgress(account.ID, enrollment.BatchID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to compute progress")
		}
		payloads = append(payloads, fiber.Map{
			"enrollment_id": enrollment.ID,
			"enrolled_at":   enrollment.EnrolledAt,
			"batch":         batchView(enrollment.Batch),
			"progress":      fmt.Sprintf("%d / %d", completed, total),
			"percent":       services.ProgressPercent(completed, total),
		})
	}
	return c.JSON(fiber.Map{"enrollments": payloads})
}

// SearchStudentBatches finds enrollments by student email or by a numeric
// enrollment id. An empty result set is a normal answer, not an error.
func (handler *Handler) SearchStudentBatches(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return apiError(c, fiber.StatusBadRequest, "search term is required")
	}

	var enrollments []models.Enrollment
	if id, err := strconv.ParseUint(term, 10, 32); err == nil && id > 0 {
		enrollment, err := handler.repos.Enrollments.FindByID(uint(id))
		if err == nil {
			enrollments = append(enrollments, enrollment)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusInternalServerError, "search failed")
		}
	} else {
		account, err := handler.repos.Accounts.FindByNormalizedEmail(services.NormalizeEmail(term))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusInternalServerError, "search failed")
		}
		if err == nil {
			enrollments, err = handler.repos.Enrollments.ListByAccount(account.ID)
			if err != nil {
				return apiError(c, fiber.StatusInternalServerError, "search failed")
			}
			for index := range enrollments {
				enrollments[index].Account = &account
			}
		}
	}

	payloads := make([]fiber.Map, 0, len(enrollments))
	for index := range enrollments {
		enrollment := &enrollments[index]
		payload := fiber.Map{
			"enrollment_id": enrollment.ID,
			"enrolled_at":   enrollment.EnrolledAt,
		}
		if enrollment.Batch != nil {
			payload["batch"] = batchView(enrollment.Batch)
		}
		if enrollment.Account != nil {
			payload["student"] = accountView(enrollment.Account)
		}
		payloads = append(payloads, payload)
	}
	return c.JSON(fiber.Map{"enrollments": payloads})
}
