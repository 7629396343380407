package api

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/models"
	"github.com/terraincognita07/bristol/internal/services"
)

var errorKeys = map[string]string{
	"invalid input":             "auth.error.invalid_input",
	"invalid credentials":       "auth.error.invalid_credentials",
	"email already exists":      "auth.error.email_exists",
	"weak password":             "auth.error.weak_password",
	"password mismatch":         "auth.error.password_mismatch",
	"too many login attempts":   "auth.error.too_many_login_attempts",
	"invalid current password":  "settings.error.invalid_current_password",
	"new password must differ":  "settings.error.password_unchanged",
	"password change required":  "settings.password.required_notice",
	"invalid composer link":     "composer.error.invalid_link",
	"failed to save entry":      "composer.error.save_failed",
	"failed to reset timer":     "composer.error.timer_reset_failed",
	"invalid analysis request":  "analyze.error.invalid_request",
	"analysis failed":           "analyze.error.failed",
	"photo is required":         "photo.error.required",
	"photo is too large":        "photo.error.too_large",
	"photo type is not allowed": "photo.error.type_forbidden",
	"failed to store photo":     "photo.error.store_failed",
	"entry not found":           "entries.error.not_found",
	"failed to delete entry":    "entries.error.delete_failed",
	"unauthorized":              "auth.error.unauthorized",
	"not found":                 "not_found.title",
	"invalid from date":         "export.error.invalid_from",
	"invalid to date":           "export.error.invalid_to",
	"invalid range":             "export.error.invalid_range",
	"failed to build export":    "export.error.failed",
	"failed to load entries":    "entries.error.load_failed",
	"failed to update timer":    "timer.error.update_failed",
	"failed to read timer":      "timer.error.read_failed",
	"failed to change password": "settings.error.change_failed",
	"failed to create account":  "auth.error.register_failed",
	"failed to create session":  "auth.error.session_failed",
	"invalid entry payload":     "composer.error.invalid_payload",
	"analysis required":         "composer.error.analysis_required",
	"photo not found":           "photo.error.not_found",
	"failed to load photo":      "photo.error.load_failed",
	"invalid settings input":    "settings.error.invalid_input",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func errorTranslationKey(message string) string {
	return errorKeys[strings.ToLower(strings.TrimSpace(message))]
}

func localizedError(messages map[string]string, message string) string {
	key := errorTranslationKey(message)
	if key == "" {
		return message
	}
	return translateMessage(messages, key)
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(language)
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	if _, ok := data["Messages"]; !ok {
		data["Messages"] = currentMessages(c)
	}
	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}
	if _, ok := data["Languages"]; !ok {
		data["Languages"] = handler.i18n.SupportedLanguages()
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = string(c.Request().URI().RequestURI())
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	if _, ok := data["CurrentUser"]; !ok {
		if user, ok := currentUser(c); ok {
			data["CurrentUser"] = user
		}
	}
	return data
}

func optionTranslationKey(group string, value int) string {
	return "option." + group + "." + strconv.Itoa(value)
}

func categoryOptions(group string) []models.CategoryOption {
	switch group {
	case "type":
		return models.EntryTypeOptions()
	case "volume":
		return models.EntryVolumeOptions()
	case "feeling":
		return models.EntryFeelingOptions()
	case "color":
		return models.EntryColorOptions()
	default:
		return nil
	}
}

// localizedOptionLabel falls back to the catalog label when no translation exists.
func localizedOptionLabel(messages map[string]string, group string, value int) string {
	key := optionTranslationKey(group, value)
	if translated := translateMessage(messages, key); translated != key {
		return translated
	}
	for _, option := range categoryOptions(group) {
		if option.Value == value {
			return option.Label
		}
	}
	return strconv.Itoa(value)
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t": func(messages map[string]string, key string) string {
			return translateMessage(messages, key)
		},
		"options": categoryOptions,
		"optionLabel": func(messages map[string]string, group string, value int) string {
			return localizedOptionLabel(messages, group, value)
		},
		"optionIcon": func(group string, value int) string {
			for _, option := range categoryOptions(group) {
				if option.Value == value {
					return option.Icon
				}
			}
			return ""
		},
		"formatDuration": services.FormatDuration,
		"formatDate": func(value time.Time, layout string) string {
			if value.IsZero() {
				return ""
			}
			return value.Format(layout)
		},
		"deref": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"languageLabel": func(language string) string {
			return strings.ToUpper(language)
		},
	}
}
