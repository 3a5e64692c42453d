package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"gorm.io/gorm"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// domainError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500; domain errors never crash a request.
func (handler *Handler) domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrDuplicateAddress):
		return apiError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrAdminAlreadyExists):
		return apiError(c, fiber.StatusConflict, "an admin already exists")
	case errors.Is(err, services.ErrDuplicateBatchName):
		return apiError(c, fiber.StatusConflict, "batch name already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrInvalidOrExpiredCode):
		return apiError(c, fiber.StatusBadRequest, "invalid or expired recovery code")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "password must be at least 6 characters")
	case errors.Is(err, services.ErrFileTypeNotAllowed):
		return apiError(c, fiber.StatusBadRequest, "file type not allowed")
	}
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := c.ParamsInt(name)
	if err != nil || value <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}

// trainerProfileFor resolves a trainer account's paired profile by normalized
// email. A missing profile is (nil, nil): the pairing is broken, not an
// infrastructure failure.
func (handler *Handler) trainerProfileFor(account *models.Account) (*models.TrainerProfile, error) {
	trainer, err := handler.repos.Trainers.FindByNormalizedEmail(services.NormalizeEmail(account.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trainer, nil
}

// batchResourceFor assembles the policy context for a batch-scoped decision.
// Enrollment membership is looked up only for students; other roles never
// depend on it.
func (handler *Handler) batchResourceFor(account *models.Account, batch *models.Batch) (*services.BatchResource, error) {
	resource := &services.BatchResource{AssignedTrainer: batch.TrainerProfile}
	if account != nil && account.Role == models.RoleStudent {
		enrolled, err := handler.repos.Enrollments.ExistsByAccountAndBatch(account.ID, batch.ID)
		if err != nil {
			return nil, err
		}
		resource.ActorEnrolled = enrolled
	}
	return resource, nil
}
