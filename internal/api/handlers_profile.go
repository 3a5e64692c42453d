package api

import (
	"errors"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var profilePictureExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

func (handler *Handler) ShowProfile(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := accountView(account)
	payload["phone"] = account.Phone
	payload["address"] = account.Address
	payload["about"] = account.About
	payload["profile_pic"] = account.ProfilePic

	if account.Role == models.RoleTrainer {
		trainer, err := handler.trainerProfileFor(account)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
		}
		if trainer != nil {
			payload["expertise"] = trainer.Expertise
		}
	}
	return c.JSON(fiber.Map{"profile": payload})
}

// UpdateProfile edits the signed-in account's contact details and optional
// profile picture. Trainer edits are mirrored onto the paired profile so
// admin listings stay in sync.
func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}

	account.Name = input.Name
	account.Phone = input.Phone
	account.Address = input.Address
	account.About = input.About

	if fileHeader, err := c.FormFile("profile_pic"); err == nil {
		if !profilePictureExtensions[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
			return apiError(c, fiber.StatusBadRequest, "profile picture must be an image")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to read upload")
		}
		defer file.Close()

		storedName := services.StoredFilename(fileHeader.Filename)
		if err := handler.blobs.Save(storage.ProfilePictureKey(storedName), file); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to store profile picture")
		}
		if account.ProfilePic != "" {
			if err := handler.blobs.Delete(storage.ProfilePictureKey(account.ProfilePic)); err != nil &&
				!errors.Is(err, storage.ErrNotFound) {
				log.Printf("delete old profile picture for account %d: %v", account.ID, err)
			}
		}
		account.ProfilePic = storedName
	}

	if err := handler.repos.Accounts.Save(account); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	if account.Role == models.RoleTrainer {
		trainer, err := handler.trainerProfileFor(account)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
		if trainer != nil {
			trainer.Name = account.Name
			trainer.Phone = account.Phone
			trainer.Address = account.Address
			trainer.About = account.About
			trainer.ProfilePic = account.ProfilePic
			if input.Expertise != "" {
				trainer.Expertise = input.Expertise
			}
			if err := handler.repos.Trainers.Save(trainer); err != nil {
				return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
			}
		}
	}

	return c.JSON(fiber.Map{"ok": true, "message": "profile updated"})
}

// UpdateSecurity changes password and/or email after re-verifying the current
// password. An email change on a trainer account follows through to the
// paired profile, keeping the address pairing intact.
func (handler *Handler) UpdateSecurity(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := securityInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return apiError(c, fiber.StatusForbidden, "current password is incorrect")
	}

	newEmail := services.NormalizeEmail(input.NewEmail)
	changingEmail := newEmail != "" && newEmail != services.NormalizeEmail(account.Email)
	changingPassword := input.NewPassword != ""
	if !changingEmail && !changingPassword {
		return apiError(c, fiber.StatusBadRequest, "nothing to change")
	}

	if changingPassword {
		if err := services.ValidatePasswordLength(input.NewPassword); err != nil {
			return handler.domainError(c, err)
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to update security settings")
		}
		account.PasswordHash = string(passwordHash)
	}

	var trainer *models.TrainerProfile
	if changingEmail {
		taken, err := handler.repos.Accounts.ExistsOtherWithEmail(newEmail, account.ID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to update security settings")
		}
		if taken {
			return handler.domainError(c, services.ErrDuplicateAddress)
		}
		if account.Role == models.RoleTrainer {
			trainer, err = handler.trainerProfileFor(account)
			if err != nil {
				return apiError(c, fiber.StatusInternalServerError, "failed to update security settings")
			}
		}
		account.Email = newEmail
	}

	if err := handler.repos.Accounts.Save(account); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update security settings")
	}
	if trainer != nil {
		trainer.Email = newEmail
		if err := handler.repos.Trainers.Save(trainer); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to update security settings")
		}
	}

	return c.JSON(fiber.Map{"ok": true, "message": "security settings updated"})
}
