package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/services"
)

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if _, err := handler.authenticateRequest(c); err == nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "login", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.login", "Bristol | Sign in"),
		"ErrorKey":   errorTranslationKey(flash.AuthError),
		"LoginEmail": flash.LoginEmail,
	})
}

func (handler *Handler) ShowRegisterPage(c *fiber.Ctx) error {
	if _, err := handler.authenticateRequest(c); err == nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "register", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.register", "Bristol | Create account"),
		"ErrorKey":   errorTranslationKey(flash.AuthError),
		"LoginEmail": services.NormalizeAuthEmail(c.Query("email", flash.LoginEmail)),
	})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(credentials.Email, credentials.Password, credentials.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
		case errors.Is(err, services.ErrAuthPasswordMismatch):
			return handler.respondAuthError(c, fiber.StatusBadRequest, "password mismatch")
		case errors.Is(err, services.ErrWeakPassword):
			return handler.respondAuthError(c, fiber.StatusBadRequest, "weak password")
		case errors.Is(err, services.ErrAuthEmailExists):
			return handler.respondAuthError(c, fiber.StatusConflict, "email already exists")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to create account")
		}
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	}
	return redirectOrJSON(c, "/")
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.tooManyRecent(limiterKey, now) {
		return handler.respondAuthError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return handler.respondAuthError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	if user.MustChangePassword {
		if acceptsJSON(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "password change required"})
		}
		return redirectOrJSON(c, changePasswordPath)
	}
	return redirectOrJSON(c, "/")
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	handler.clearFlashCookie(c)
	return redirectOrJSON(c, "/login")
}

// respondAuthError sends form posts back to their page with a flash message
// and answers everything else with a JSON error.
func (handler *Handler) respondAuthError(c *fiber.Ctx, status int, message string) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, message)
	}

	email := services.NormalizeAuthEmail(c.FormValue("email"))
	handler.setFlashCookie(c, FlashPayload{AuthError: message, LoginEmail: email})
	switch c.Path() {
	case "/api/auth/register":
		target := "/register"
		if email != "" {
			target += "?" + url.Values{"email": {email}}.Encode()
		}
		return c.Redirect(target, fiber.StatusSeeOther)
	default:
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}
