package api

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/terraincognita07/bristol/internal/db"
	"github.com/terraincognita07/bristol/internal/i18n"
	"github.com/terraincognita07/bristol/internal/services"
	"github.com/terraincognita07/bristol/internal/storage"
	"gorm.io/gorm"
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	templates    map[string]*template.Template
	cookieCodec  *secureCookieCodec
	loginLimiter *attemptLimiter
	photos       storage.PhotoStore
	now          func() time.Time

	repositories    *db.Repositories
	authService     *services.AuthService
	composer        *services.EntryComposer
	timerService    *services.TimerService
	entryService    *services.EntryService
	exportService   *services.ExportService
	analysisService *services.AnalysisService
}

var templatePages = []string{
	"login",
	"register",
	"change_password",
	"entries",
	"add_entry",
	"analyze",
	"not_found",
}

func NewHandler(database *gorm.DB, secret string, templateFiles fs.FS, location *time.Location, i18nManager *i18n.Manager, cookieSecure bool, photos storage.PhotoStore) (*Handler, error) {
	if location == nil {
		location = time.Local
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if photos == nil {
		return nil, errors.New("photo store is required")
	}

	codec, err := newSecureCookieCodec([]byte(secret))
	if err != nil {
		return nil, err
	}

	templates, err := parsePageTemplates(templateFiles)
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		i18n:         i18nManager,
		templates:    templates,
		cookieCodec:  codec,
		loginLimiter: newAttemptLimiter(),
		photos:       photos,
		now:          time.Now,
	}
	return handler.withDependencies(database, services.RuleBasedAnalyzer{}), nil
}

func parsePageTemplates(templateFiles fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(templatePages))
	for _, page := range templatePages {
		parsed, err := template.New("base").Funcs(templateFuncMap()).ParseFS(templateFiles, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

func (handler *Handler) withDependencies(database *gorm.DB, analyzer services.ImageAnalyzer) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.timerService = services.NewTimerService(handler.repositories.Timers)
	handler.composer = services.NewEntryComposer(handler.repositories.Entries, handler.timerService, handler.location)
	handler.entryService = services.NewEntryService(handler.repositories.Entries, handler.photos)
	handler.exportService = services.NewExportService(handler.repositories.Entries)
	handler.analysisService = services.NewAnalysisService(analyzer)
	return handler
}
