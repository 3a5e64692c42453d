package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func (handler *Handler) ListStudents(c *fiber.Ctx) error {
	students, err := handler.repos.Accounts.ListByRole(models.RoleStudent)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list students")
	}
	payloads := make([]fiber.Map, 0, len(students))
	for index := range students {
		payloads = append(payloads, accountView(&students[index]))
	}
	return c.JSON(fiber.Map{"students": payloads})
}

// AdminChangePassword lets the admin rotate a student's password without
// knowing the old one. The length floor still applies.
func (handler *Handler) AdminChangePassword(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid student id")
	}
	input := adminPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := services.ValidatePasswordLength(input.NewPassword); err != nil {
		return handler.domainError(c, err)
	}

	account, err := handler.repos.Accounts.FindByID(accountID)
	if err != nil {
		return handler.domainError(c, err)
	}
	if account.Role != models.RoleStudent {
		return apiError(c, fiber.StatusForbidden, "only student passwords can be changed here")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to change password")
	}
	if err := handler.repos.Accounts.UpdatePasswordHash(account.ID, string(passwordHash)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to change password")
	}
	return c.JSON(fiber.Map{"ok": true, "message": "password updated"})
}

// DeleteStudent removes a student account and everything hanging off it.
// Admin accounts can never be deleted through this path.
func (handler *Handler) DeleteStudent(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid student id")
	}
	account, err := handler.repos.Accounts.FindByID(accountID)
	if err != nil {
		return handler.domainError(c, err)
	}
	if account.Role != models.RoleStudent {
		return apiError(c, fiber.StatusForbidden, "only student accounts can be deleted")
	}

	if err := handler.repos.Accounts.DeleteStudentCascade(account.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete student")
	}
	return c.JSON(fiber.Map{"ok": true, "message": "student deleted"})
}
