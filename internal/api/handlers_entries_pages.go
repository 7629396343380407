package api

import (
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/models"
	"github.com/terraincognita07/bristol/internal/services"
)

// composerFormInput is the editable part of the composer page. Photo and
// analysis stay in the query string the page was opened with.
type composerFormInput struct {
	Name    string `form:"name"`
	Type    int    `form:"type"`
	Volume  int    `form:"volume"`
	Feeling int    `form:"feeling"`
	Color   int    `form:"color"`
	Notes   string `form:"notes"`
}

func (input composerFormInput) composerForm() services.ComposerForm {
	return services.ComposerForm{
		Name:    input.Name,
		Type:    input.Type,
		Volume:  input.Volume,
		Feeling: input.Feeling,
		Color:   input.Color,
		Notes:   input.Notes,
	}
}

type entryRow struct {
	models.Entry
	LocalDate time.Time
	HasPhoto  bool
}

func (handler *Handler) ShowEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	entries, err := handler.entryService.List(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	timer, err := handler.timerService.State(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read timer")
	}

	rows := make([]entryRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entryRow{
			Entry:     entry,
			LocalDate: entry.Date.In(handler.location),
			HasPhoto:  entry.ImageURI != nil && *entry.ImageURI != "",
		})
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "entries", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.entries", "Bristol | Entries"),
		"Entries":    rows,
		"Timer":      timer,
		"ErrorKey":   errorTranslationKey(flash.EntryError),
		"SuccessKey": flash.SettingsSuccess,
	})
}

func (handler *Handler) ShowComposer(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	query := rawQuery(c)
	params, err := services.ParseComposerParams(query)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid composer link")
	}
	form, err := handler.composer.Compose(user.ID, params)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read timer")
	}

	action := "/entries"
	if query != "" {
		action += "?" + query
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "add_entry", fiber.Map{
		"Title":        localizedPageTitle(currentMessages(c), "meta.title.composer", "Bristol | New entry"),
		"Form":         form,
		"FormAction":   action,
		"NeedsAnalyze": form.HasImage() && !form.IsAnalyzed(),
		"CancelPath":   "/entries/new/cancel?" + url.Values{"back": {"/"}}.Encode(),
		"ErrorKey":     errorTranslationKey(flash.EntryError),
	})
}

// SaveEntry finalizes the composer or detours to photo analysis.
func (handler *Handler) SaveEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	params, err := services.ParseComposerParams(rawQuery(c))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid composer link")
	}
	input := composerFormInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid entry payload")
	}

	form := input.composerForm()
	if params.Restore != nil {
		form.Duration = params.Restore.Duration
	}
	outcome, err := handler.composer.Save(user.ID, params, form)
	if err != nil {
		return handler.respondSaveError(c, err)
	}
	if outcome.Detoured() {
		return redirectOrJSON(c, analyzePath(*outcome.Detour))
	}
	return redirectOrJSON(c, "/")
}

func (handler *Handler) CancelComposer(c *fiber.Ctx) error {
	return c.Redirect(sanitizeRedirectPath(c.Query("back"), "/"), fiber.StatusSeeOther)
}

func (handler *Handler) respondSaveError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrTimerResetFailed) {
		log.Printf("entry saved but timer reset failed: %v", err)
		if acceptsJSON(c) || isHTMX(c) {
			return apiError(c, fiber.StatusInternalServerError, "failed to reset timer")
		}
		handler.setFlashCookie(c, FlashPayload{EntryError: "failed to reset timer"})
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	if errors.Is(err, services.ErrTimerReadFailed) {
		return apiError(c, fiber.StatusInternalServerError, "failed to read timer")
	}
	return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
}

func analyzePath(rc services.ReturnContext) string {
	return "/analyze?" + rc.Encode().Encode()
}
