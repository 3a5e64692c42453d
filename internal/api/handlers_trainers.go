package api

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultTrainerPassword seeds new trainer accounts; trainers are expected to
// change it from their security settings.
const defaultTrainerPassword = "trainer123"

// CreateTrainer creates a trainer profile together with its login account.
// The pair shares one email address, which must be free on both sides.
func (handler *Handler) CreateTrainer(c *fiber.Ctx) error {
	input := trainerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	email := services.NormalizeEmail(input.Email)
	if input.Name == "" || email == "" {
		return apiError(c, fiber.StatusBadRequest, "name and email are required")
	}

	profileTaken, err := handler.repos.Trainers.ExistsByNormalizedEmail(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create trainer")
	}
	accountTaken, err := handler.repos.Accounts.ExistsByNormalizedEmail(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create trainer")
	}
	if profileTaken || accountTaken {
		return handler.domainError(c, services.ErrDuplicateAddress)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(defaultTrainerPassword), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create trainer")
	}

	trainer := models.TrainerProfile{
		Name:      input.Name,
		Email:     email,
		Expertise: input.Expertise,
	}
	account := models.Account{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleTrainer,
		CreatedAt:    time.Now(),
	}
	if err := handler.repos.Trainers.CreatePaired(&trainer, &account); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create trainer")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"trainer": trainerView(&trainer),
		"message": "trainer created with the default password",
	})
}

// DeleteTrainer removes the profile and its login account, unassigning the
// trainer's batches first.
func (handler *Handler) DeleteTrainer(c *fiber.Ctx) error {
	trainerID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid trainer id")
	}
	trainer, err := handler.repos.Trainers.FindByID(trainerID)
	if err != nil {
		return handler.domainError(c, err)
	}

	if err := handler.repos.Trainers.DeletePaired(trainer.ID, services.NormalizeEmail(trainer.Email)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete trainer")
	}
	if trainer.ProfilePic != "" {
		if err := handler.blobs.Delete(storage.ProfilePictureKey(trainer.ProfilePic)); err != nil &&
			!errors.Is(err, storage.ErrNotFound) {
			log.Printf("delete trainer %d profile picture: %v", trainer.ID, err)
		}
	}
	return c.JSON(fiber.Map{"ok": true, "message": "trainer deleted"})
}

func (handler *Handler) ListTrainers(c *fiber.Ctx) error {
	trainers, err := handler.repos.Trainers.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list trainers")
	}
	payloads := make([]fiber.Map, 0, len(trainers))
	for index := range trainers {
		payloads = append(payloads, trainerView(&trainers[index]))
	}
	return c.JSON(fiber.Map{"trainers": payloads})
}

// SearchTrainer looks a trainer up by email; a miss is an empty result.
func (handler *Handler) SearchTrainer(c *fiber.Ctx) error {
	term := services.NormalizeEmail(c.Query("q"))
	if term == "" {
		return apiError(c, fiber.StatusBadRequest, "search term is required")
	}

	trainer, err := handler.repos.Trainers.FindByNormalizedEmail(term)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"trainers": []fiber.Map{}})
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "search failed")
	}

	batches, err := handler.repos.Batches.ListByTrainerProfile(trainer.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "search failed")
	}
	payload := trainerView(&trainer)
	payload["batches"] = batchViews(batches)
	return c.JSON(fiber.Map{"trainers": []fiber.Map{payload}})
}
