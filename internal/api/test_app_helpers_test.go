package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/db"
	"github.com/terraincognita07/bristol/internal/i18n"
	"github.com/terraincognita07/bristol/internal/models"
	"github.com/terraincognita07/bristol/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "StrongPass1"

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
	photoDir string
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	return newTestAppWithLocation(t, time.UTC)
}

func newTestAppWithLocation(t *testing.T, location *time.Location) testApp {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}

	apiDir := filepath.Dir(testFile)
	internalDir := filepath.Dir(apiDir)
	templatesDir := filepath.Join(internalDir, "templates")
	i18nDir := filepath.Join(internalDir, "i18n")
	databasePath := filepath.Join(t.TempDir(), "bristol-api-test.db")
	photoDir := filepath.Join(t.TempDir(), "photos")

	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	i18nManager, err := i18n.NewManager("en", os.DirFS(i18nDir))
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	photos, err := storage.NewLocalPhotoStore(photoDir)
	if err != nil {
		t.Fatalf("init photo store: %v", err)
	}

	handler, err := NewHandler(database, "test-secret-key-with-enough-length!!", os.DirFS(templatesDir), location, i18nManager, false, photos)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return testApp{app: app, database: database, handler: handler, photoDir: photoDir}
}

func createTestUser(t *testing.T, database *gorm.DB, email string, mustChangePassword bool) models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Email:              strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:       string(passwordHash),
		MustChangePassword: mustChangePassword,
		CreatedAt:          time.Now().UTC(),
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func loginAndExtractAuthCookie(t *testing.T, app *fiber.App, email string, password string) string {
	t.Helper()

	response := postForm(t, app, "/api/auth/login", url.Values{
		"email":    {email},
		"password": {password},
	}, "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login status 303, got %d", response.StatusCode)
	}

	value := responseCookieValue(response.Cookies(), authCookieName)
	if value == "" {
		t.Fatal("auth cookie is missing in login response")
	}
	return authCookieName + "=" + value
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values, cookie string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return response
}

func postJSON(t *testing.T, app *fiber.App, target string, payload any, cookie string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(body)))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return response
}

func sendRequest(t *testing.T, app *fiber.App, method string, target string, cookie string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(method, target, nil)
	request.Header.Set("Accept-Language", "en")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	return response
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(body)
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]any{}
	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(bytes, &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	message, _ := payload["error"].(string)
	return message
}
