package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/services"
)

func (handler *Handler) ShowAnalyze(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	rc, err := decodeOwnedReturnContext(rawQuery(c), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid analysis request")
	}

	return handler.render(c, "analyze", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.analyze", "Bristol | Photo analysis"),
		"Context":    rc,
		"FormAction": "/analyze?" + rawQuery(c),
		"BackPath":   "/entries/new?" + url.Values{"imageUri": {rc.ImageURI}}.Encode(),
	})
}

// RunAnalyze analyzes the forwarded photo and returns to the composer with
// the result.
func (handler *Handler) RunAnalyze(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	rc, err := decodeOwnedReturnContext(rawQuery(c), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid analysis request")
	}

	next, err := handler.analysisService.Run(c.UserContext(), rc)
	if err != nil {
		return apiError(c, fiber.StatusBadGateway, "analysis failed")
	}
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"next": next})
	}
	return redirectOrJSON(c, next)
}

func decodeOwnedReturnContext(query string, userID uint) (services.ReturnContext, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return services.ReturnContext{}, services.ErrReturnContextInvalid
	}
	rc, err := services.DecodeReturnContext(values)
	if err != nil {
		return services.ReturnContext{}, err
	}
	key, ok := services.PhotoKeyFromURI(rc.ImageURI)
	if !ok || !services.PhotoKeyOwnedBy(key, userID) {
		return services.ReturnContext{}, services.ErrReturnContextInvalid
	}
	return rc, nil
}
