package api

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/services"
)

// entryPayload is the JSON rendition of the composer: the navigation
// parameters plus the fields a user would edit.
type entryPayload struct {
	ImageURI        *string `json:"imageUri"`
	AnalysisDetails *string `json:"analysisDetails"`
	Recommendations *string `json:"recommendations"`
	Name            *string `json:"name"`
	Type            *int    `json:"type"`
	Volume          *int    `json:"volume"`
	Feeling         *int    `json:"feeling"`
	Color           *int    `json:"color"`
	Notes           *string `json:"notes"`
}

func (payload entryPayload) composerParams() services.ComposerParams {
	values := url.Values{}
	setOptional := func(key string, value *string) {
		if value != nil {
			values.Set(key, *value)
		}
	}
	setOptionalInt := func(key string, value *int) {
		if value != nil {
			values.Set(key, strconv.Itoa(*value))
		}
	}
	setOptional("imageUri", payload.ImageURI)
	setOptional("analysisDetails", payload.AnalysisDetails)
	setOptional("recommendations", payload.Recommendations)
	setOptionalInt("type", payload.Type)
	setOptionalInt("volume", payload.Volume)
	setOptionalInt("color", payload.Color)
	return services.ComposerParamsFromValues(values)
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, rangeError := handler.parseExportRange(c)
	if rangeError != "" {
		return apiError(c, fiber.StatusBadRequest, rangeError)
	}
	entries, err := handler.entryService.ListRange(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	return c.JSON(entries)
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entry, err := handler.entryService.Get(user.ID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return apiError(c, fiber.StatusNotFound, "entry not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	return c.JSON(entry)
}

// CreateEntry runs the composer save decision for JSON clients. A photo
// without analysis answers 409 with the analysis page to visit next.
func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := entryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid entry payload")
	}

	params := payload.composerParams()
	form := handler.composer.Draft(params)
	if payload.Notes != nil {
		form.Notes = *payload.Notes
	}
	if err := handler.composer.Absorb(user.ID, &form, params); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read timer")
	}
	if payload.Name != nil {
		form.Name = *payload.Name
	}
	if payload.Feeling != nil {
		form.Feeling = *payload.Feeling
	}

	outcome, err := handler.composer.Save(user.ID, params, form)
	if err != nil {
		if errors.Is(err, services.ErrTimerResetFailed) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to reset timer",
				"entry": outcome.Entry,
			})
		}
		if errors.Is(err, services.ErrTimerReadFailed) {
			return apiError(c, fiber.StatusInternalServerError, "failed to read timer")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
	}
	if outcome.Detoured() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "analysis required",
			"next":  analyzePath(*outcome.Detour),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(outcome.Entry)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.entryService.Delete(c.UserContext(), user.ID, c.Params("id")); err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return apiError(c, fiber.StatusNotFound, "entry not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to delete entry")
	}
	return redirectOrJSON(c, "/")
}
