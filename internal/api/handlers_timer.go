package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/services"
)

func (handler *Handler) GetTimer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	state, err := handler.timerService.State(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read timer")
	}
	return c.JSON(state)
}

func (handler *Handler) StartTimer(c *fiber.Ctx) error {
	return handler.updateTimer(c, handler.timerService.Start)
}

func (handler *Handler) StopTimer(c *fiber.Ctx) error {
	return handler.updateTimer(c, handler.timerService.Stop)
}

func (handler *Handler) ResetTimer(c *fiber.Ctx) error {
	return handler.updateTimer(c, func(userID uint) (services.TimerState, error) {
		if err := handler.timerService.Reset(userID); err != nil {
			return services.TimerState{}, err
		}
		return services.TimerState{}, nil
	})
}

// updateTimer answers JSON clients with the new state and sends page forms
// back to the listing.
func (handler *Handler) updateTimer(c *fiber.Ctx, update func(userID uint) (services.TimerState, error)) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	state, err := update(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update timer")
	}
	if acceptsJSON(c) {
		return c.JSON(state)
	}
	return redirectOrJSON(c, sanitizeRedirectPath(c.FormValue("next"), "/"))
}
