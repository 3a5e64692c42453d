package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/services"
)

// AuthRequired resolves the session cookie to an account and stashes it in
// the request context. An unresolvable session is anonymous and rejected.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	account, err := handler.identity.ResolveSession(c.Cookies(sessionCookieName))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to resolve session")
	}
	if account == nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextUserKey, account)
	return c.Next()
}

// AdminOnly gates management routes through the authorization policy.
func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !services.CanAct(account, services.ActionManage, nil) {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
