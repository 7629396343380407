package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/terraincognita07/bristol/internal/models"
)

func TestRegisterCreatesSessionAndRedirectsHome(t *testing.T) {
	env := newTestApp(t)

	response := postForm(t, env.app, "/api/auth/register", url.Values{
		"email":            {"  New.User@Example.com "},
		"password":         {testPassword},
		"confirm_password": {testPassword},
	}, "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
	if responseCookieValue(response.Cookies(), authCookieName) == "" {
		t.Fatal("expected auth cookie after registration")
	}

	var user models.User
	if err := env.database.Where("email = ?", "new.user@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected normalized user to be stored: %v", err)
	}
}

func TestRegisterWeakPasswordRedirectsBackWithFlash(t *testing.T) {
	env := newTestApp(t)

	response := postForm(t, env.app, "/api/auth/register", url.Values{
		"email":            {"weak@example.com"},
		"password":         {"weakpass"},
		"confirm_password": {"weakpass"},
	}, "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); !strings.HasPrefix(location, "/register") {
		t.Fatalf("expected redirect back to register, got %q", location)
	}
	flash := responseCookieValue(response.Cookies(), flashCookieName)
	if flash == "" {
		t.Fatal("expected flash cookie with the validation error")
	}

	pageRequest := sendRequest(t, env.app, http.MethodGet, "/register?email=weak%40example.com", flashCookieName+"="+flash)
	body := readBody(t, pageRequest)
	if !strings.Contains(body, "The password is too weak.") {
		t.Fatal("expected register page to render the flashed error")
	}
}

func TestRegisterDuplicateEmailAsJSON(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "taken@example.com", false)

	response := postJSON(t, env.app, "/api/auth/register", map[string]string{
		"email":            "TAKEN@example.com",
		"password":         testPassword,
		"confirm_password": testPassword,
	}, "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response.Body); message != "email already exists" {
		t.Fatalf("unexpected error %q", message)
	}
}

func TestLoginRejectsWrongPasswordWithFlashRedirect(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "login@example.com", false)

	response := postForm(t, env.app, "/api/auth/login", url.Values{
		"email":    {"login@example.com"},
		"password": {"WrongPass1"},
	}, "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
	if responseCookieValue(response.Cookies(), authCookieName) != "" {
		t.Fatal("did not expect auth cookie for failed login")
	}
}

func TestLoginLimiterBlocksAfterRepeatedFailures(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "limited@example.com", false)

	for attempt := 0; attempt < loginAttemptsLimit; attempt++ {
		response := postJSON(t, env.app, "/api/auth/login", map[string]string{
			"email":    "limited@example.com",
			"password": "WrongPass1",
		}, "")
		response.Body.Close()
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected status 401, got %d", attempt+1, response.StatusCode)
		}
	}

	response := postJSON(t, env.app, "/api/auth/login", map[string]string{
		"email":    "limited@example.com",
		"password": testPassword,
	}, "")
	defer response.Body.Close()
	if response.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 after repeated failures, got %d", response.StatusCode)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestApp(t)

	pageResponse := sendRequest(t, env.app, http.MethodGet, "/entries/new", "")
	pageResponse.Body.Close()
	if pageResponse.StatusCode != http.StatusSeeOther || pageResponse.Header.Get("Location") != "/login" {
		t.Fatalf("expected page redirect to /login, got %d %q", pageResponse.StatusCode, pageResponse.Header.Get("Location"))
	}

	apiResponse := sendRequest(t, env.app, http.MethodGet, "/api/entries", "")
	defer apiResponse.Body.Close()
	if apiResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected api status 401, got %d", apiResponse.StatusCode)
	}
	if message := readAPIError(t, apiResponse.Body); message != "unauthorized" {
		t.Fatalf("unexpected error %q", message)
	}
}

func TestTamperedAuthCookieIsRejected(t *testing.T) {
	env := newTestApp(t)
	user := createTestUser(t, env.database, "tamper@example.com", false)

	token, err := env.handler.buildToken(&user, defaultAuthTokenTTL)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	response := sendRequest(t, env.app, http.MethodGet, "/api/entries", authCookieName+"="+token)
	response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unsealed token to be rejected, got %d", response.StatusCode)
	}
}

func TestMustChangePasswordFlow(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "reset@example.com", true)

	loginResponse := postForm(t, env.app, "/api/auth/login", url.Values{
		"email":    {"reset@example.com"},
		"password": {testPassword},
	}, "")
	loginResponse.Body.Close()
	if location := loginResponse.Header.Get("Location"); location != changePasswordPath {
		t.Fatalf("expected redirect to %s, got %q", changePasswordPath, location)
	}
	authCookie := authCookieName + "=" + responseCookieValue(loginResponse.Cookies(), authCookieName)

	blocked := sendRequest(t, env.app, http.MethodGet, "/", authCookie)
	blocked.Body.Close()
	if blocked.StatusCode != http.StatusSeeOther || blocked.Header.Get("Location") != changePasswordPath {
		t.Fatalf("expected listing to redirect to password change, got %d %q", blocked.StatusCode, blocked.Header.Get("Location"))
	}

	page := sendRequest(t, env.app, http.MethodGet, changePasswordPath, authCookie)
	if body := readBody(t, page); !strings.Contains(body, "Your password was reset.") {
		t.Fatal("expected required notice on password change page")
	}

	changeResponse := postForm(t, env.app, changePasswordPath, url.Values{
		"current_password": {testPassword},
		"new_password":     {"NewStrongPass2"},
		"confirm_password": {"NewStrongPass2"},
	}, authCookie)
	changeResponse.Body.Close()
	if changeResponse.StatusCode != http.StatusSeeOther || changeResponse.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect home after change, got %d %q", changeResponse.StatusCode, changeResponse.Header.Get("Location"))
	}

	var user models.User
	if err := env.database.Where("email = ?", "reset@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.MustChangePassword {
		t.Fatal("expected must-change flag to be cleared")
	}

	listing := sendRequest(t, env.app, http.MethodGet, "/", authCookie)
	listing.Body.Close()
	if listing.StatusCode != http.StatusOK {
		t.Fatalf("expected listing to open after change, got %d", listing.StatusCode)
	}
}

func TestChangePasswordRejectsWrongCurrentPassword(t *testing.T) {
	env := newTestApp(t)
	user := createTestUser(t, env.database, "change@example.com", false)
	authCookie := loginAndExtractAuthCookie(t, env.app, user.Email, testPassword)

	response := postJSON(t, env.app, changePasswordPath, map[string]string{
		"current_password": "WrongPass1",
		"new_password":     "NewStrongPass2",
		"confirm_password": "NewStrongPass2",
	}, authCookie)
	defer response.Body.Close()

	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response.Body); message != "invalid current password" {
		t.Fatalf("unexpected error %q", message)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestApp(t)
	user := createTestUser(t, env.database, "logout@example.com", false)
	authCookie := loginAndExtractAuthCookie(t, env.app, user.Email, testPassword)

	response := postForm(t, env.app, "/api/auth/logout", url.Values{}, authCookie)
	defer response.Body.Close()

	if response.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %q", response.Header.Get("Location"))
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			t.Fatal("expected auth cookie to be cleared")
		}
	}
}
