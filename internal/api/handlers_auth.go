package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	role, ok := models.ParseRole(input.Role)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "unknown role")
	}

	account, err := handler.identity.Register(input.Name, input.Email, input.Password, role)
	if err != nil {
		return handler.domainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"message": "account created, please log in",
		"account": accountView(&account),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	account, token, err := handler.identity.Authenticate(input.Email, input.Password)
	if err != nil {
		return handler.domainError(c, err)
	}

	handler.setSessionCookie(c, token)
	return c.JSON(fiber.Map{
		"ok":      true,
		"account": accountView(&account),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if err := handler.identity.EndSession(c.Cookies(sessionCookieName)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to end session")
	}
	handler.clearSessionCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func accountView(account *models.Account) fiber.Map {
	return fiber.Map{
		"id":    account.ID,
		"name":  account.Name,
		"email": account.Email,
		"role":  account.Role,
	}
}
