package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"gorm.io/gorm"
)

// Dashboard returns a role-shaped payload: management metrics for admins,
// assigned-batch overview for trainers, progress summary for students.
func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	switch account.Role {
	case models.RoleAdmin:
		return handler.adminDashboard(c)
	case models.RoleTrainer:
		return handler.trainerDashboard(c, account)
	case models.RoleStudent:
		return handler.studentDashboard(c, account)
	}
	return apiError(c, fiber.StatusForbidden, "unknown role")
}

func (handler *Handler) adminDashboard(c *fiber.Ctx) error {
	students, err := handler.repos.Accounts.ListByRole(models.RoleStudent)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	trainers, err := handler.repos.Trainers.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	batches, err := handler.repos.Batches.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	unassigned, err := handler.repos.Batches.ListUnassigned()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	oneWeekAgo := time.Now().AddDate(0, 0, -7)
	newStudents, err := handler.repos.Accounts.CountByRoleCreatedSince(models.RoleStudent, oneWeekAgo)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	openQueries, err := handler.repos.Queries.CountByStatus(models.QueryStatusOpen)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	trainerPayloads := make([]fiber.Map, 0, len(trainers))
	for index := range trainers {
		trainerPayloads = append(trainerPayloads, trainerView(&trainers[index]))
	}
	studentPayloads := make([]fiber.Map, 0, len(students))
	for index := range students {
		studentPayloads = append(studentPayloads, accountView(&students[index]))
	}

	return c.JSON(fiber.Map{
		"role":               models.RoleAdmin,
		"students":           studentPayloads,
		"trainers":           trainerPayloads,
		"batches":            batchViews(batches),
		"unassigned_batches": batchViews(unassigned),
		"new_students_count": newStudents,
		"open_queries_count": openQueries,
	})
}

func (handler *Handler) trainerDashboard(c *fiber.Ctx, account *models.Account) error {
	trainer, err := handler.repos.Trainers.FindByNormalizedEmail(services.NormalizeEmail(account.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Paired profile is gone; the account is unusable as a trainer.
		return apiError(c, fiber.StatusForbidden, "trainer profile link broken, please contact admin")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	batches, err := handler.repos.Batches.ListByTrainerProfile(trainer.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	batchIDs := make([]uint, 0, len(batches))
	for index := range batches {
		batchIDs = append(batchIDs, batches[index].ID)
	}
	openQueries, err := handler.repos.Queries.ListOpenForBatches(batchIDs)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	totalRecordings, err := handler.repos.Recordings.CountByTrainerProfile(trainer.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	queryPayloads := make([]fiber.Map, 0, len(openQueries))
	for index := range openQueries {
		queryPayloads = append(queryPayloads, supportQueryView(&openQueries[index]))
	}

	return c.JSON(fiber.Map{
		"role":             models.RoleTrainer,
		"trainer":          trainerView(&trainer),
		"batches":          batchViews(batches),
		"total_recordings": totalRecordings,
		"open_queries":     queryPayloads,
	})
}

func (handler *Handler) studentDashboard(c *fiber.Ctx, account *models.Account) error {
	enrollments, err := handler.repos.Enrollments.ListByAccount(account.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	totalAvailable := 0
	totalCompleted := 0
	var nextLesson fiber.Map
	enrollmentPayloads := make([]fiber.Map, 0, len(enrollments))

	for index := range enrollments {
		enrollment := &enrollments[index]
		completed, total, err := handler.ledger.ComputeProgress(account.ID, enrollment.BatchID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to compute progress")
		}
		totalAvailable += total
		totalCompleted += completed

		payload := fiber.Map{
			"enrolled_at":    enrollment.EnrolledAt,
			"progress_count": fmt.Sprintf("%d/%d", completed, total),
		}
		if enrollment.Batch != nil {
			payload["batch"] = batchView(enrollment.Batch)
		}
		enrollmentPayloads = append(enrollmentPayloads, payload)

		if nextLesson == nil {
			recording, err := handler.ledger.NextIncompleteLesson(account.ID, enrollment.BatchID)
			if err != nil {
				return apiError(c, fiber.StatusInternalServerError, "failed to compute progress")
			}
			if recording != nil {
				nextLesson = fiber.Map{
					"batch_id":       enrollment.BatchID,
					"recording_id":   recording.ID,
					"recording_name": recording.OriginalName,
				}
				if enrollment.Batch != nil {
					nextLesson["batch_name"] = enrollment.Batch.Name
				}
			}
		}
	}

	return c.JSON(fiber.Map{
		"role":             models.RoleStudent,
		"enrollments":      enrollmentPayloads,
		"overall_progress": services.ProgressPercent(totalCompleted, totalAvailable),
		"next_lesson":      nextLesson,
	})
}
