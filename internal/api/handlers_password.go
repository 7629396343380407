package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/services"
)

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (handler *Handler) ShowChangePasswordPage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "change_password", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.change_password", "Bristol | Change password"),
		"Required":   user.MustChangePassword,
		"ErrorKey":   errorTranslationKey(flash.SettingsError),
		"SuccessKey": flash.SettingsSuccess,
	})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondSettingsError(c, fiber.StatusBadRequest, "invalid settings input")
	}

	err := handler.authService.ChangePassword(*user, input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordChangeInvalidInput):
			return handler.respondSettingsError(c, fiber.StatusBadRequest, "invalid settings input")
		case errors.Is(err, services.ErrPasswordChangeMismatch):
			return handler.respondSettingsError(c, fiber.StatusBadRequest, "password mismatch")
		case errors.Is(err, services.ErrPasswordChangeInvalidCurrent):
			return handler.respondSettingsError(c, fiber.StatusUnauthorized, "invalid current password")
		case errors.Is(err, services.ErrPasswordChangeMustDiffer):
			return handler.respondSettingsError(c, fiber.StatusBadRequest, "new password must differ")
		case errors.Is(err, services.ErrWeakPassword):
			return handler.respondSettingsError(c, fiber.StatusBadRequest, "weak password")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to change password")
		}
	}

	user.MustChangePassword = false
	if err := handler.setAuthCookie(c, user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	handler.setFlashCookie(c, FlashPayload{SettingsSuccess: "settings.success.password_changed"})
	return redirectOrJSON(c, "/")
}

func (handler *Handler) respondSettingsError(c *fiber.Ctx, status int, message string) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, message)
	}
	handler.setFlashCookie(c, FlashPayload{SettingsError: message})
	return c.Redirect(changePasswordPath, fiber.StatusSeeOther)
}
