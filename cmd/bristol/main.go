package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/bristol/internal/api"
	"github.com/terraincognita07/bristol/internal/cli"
	"github.com/terraincognita07/bristol/internal/db"
	"github.com/terraincognita07/bristol/internal/i18n"
	"github.com/terraincognita07/bristol/internal/storage"
	"github.com/terraincognita07/bristol/internal/templates"
)

const (
	minSecretKeyLength = 32
	serverBodyLimit    = 8 * 1024 * 1024
	shutdownTimeout    = 10 * time.Second
)

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type runtimeContext struct {
	DBPath   string
	Location *time.Location
}

var CLI struct {
	Version  kong.VersionFlag
	DBPath   string `name:"db-path" env:"DB_PATH" help:"SQLite database path." default:"data/bristol.db"`
	Timezone string `name:"tz" env:"TZ" help:"IANA time zone for entry dates." default:"UTC"`

	Serve         serveCmd         `cmd:"" help:"Run the web server." default:"1"`
	ResetPassword resetPasswordCmd `cmd:"" help:"Reset a user's password."`
	Add           addCmd           `cmd:"" help:"Record an entry from the terminal."`
}

type serveCmd struct {
	DefaultLanguage string `name:"default-language" env:"DEFAULT_LANGUAGE" help:"Fallback UI language." default:"en"`
	CookieSecure    bool   `name:"cookie-secure" env:"COOKIE_SECURE" help:"Mark cookies Secure."`
	PhotoStore      string `name:"photo-store" env:"PHOTO_STORE" help:"Photo backend." enum:"local,s3" default:"local"`
	PhotoDir        string `name:"photo-dir" env:"PHOTO_DIR" help:"Directory for the local photo store." default:"data/photos"`
	S3Bucket        string `name:"s3-bucket" env:"S3_BUCKET" help:"Bucket for the s3 photo store."`
	S3Region        string `name:"s3-region" env:"S3_REGION" help:"Region of the s3 bucket."`
	S3Endpoint      string `name:"s3-endpoint" env:"S3_ENDPOINT" help:"Custom S3-compatible endpoint."`
	S3AccessKey     string `name:"s3-access-key" env:"S3_ACCESS_KEY" help:"Static S3 access key."`
	S3SecretKey     string `name:"s3-secret-key" env:"S3_SECRET_KEY" help:"Static S3 secret key."`
}

type resetPasswordCmd struct {
	Email       string `help:"Email of the account." required:""`
	Interactive bool   `help:"Prompt for the new password instead of generating one."`
}

type addCmd struct {
	Email string `help:"Email of the account." required:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bristol"),
		kong.Description("Self-hosted bowel movement journal"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	location := mustLoadLocation(CLI.Timezone)
	time.Local = location

	if err := ctx.Run(&runtimeContext{DBPath: CLI.DBPath, Location: location}); err != nil {
		log.Fatalf("%v", err)
	}
}

func (cmd *resetPasswordCmd) Run(rt *runtimeContext) error {
	return cli.RunResetPasswordCommand(rt.DBPath, cmd.Email, cmd.Interactive)
}

func (cmd *addCmd) Run(rt *runtimeContext) error {
	return cli.RunAddCommand(rt.DBPath, cmd.Email, rt.Location)
}

func (cmd *serveCmd) Run(rt *runtimeContext) error {
	secretKey, err := resolveSecretKey()
	if err != nil {
		return err
	}
	port, err := resolvePort()
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(rt.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cmd.DefaultLanguage, i18n.Locales)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	photos, err := cmd.photoStore(context.Background())
	if err != nil {
		return fmt.Errorf("photo store init failed: %w", err)
	}

	handler, err := api.NewHandler(database, secretKey, templates.Files, rt.Location, i18nManager, cmd.CookieSecure, photos)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Bristol",
		DisableStartupMessage: true,
		BodyLimit:             serverBodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cmd.CookieSecure)))

	app.Static("/static", filepath.Join("web", "static"))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Bristol listening on http://0.0.0.0:%s (db: %s, tz: %s, photos: %s)", port, rt.DBPath, rt.Location.String(), cmd.PhotoStore)
	if err := app.Listen(":" + port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func (cmd *serveCmd) photoStore(ctx context.Context) (storage.PhotoStore, error) {
	if cmd.PhotoStore == "s3" {
		return storage.NewS3PhotoStore(ctx, storage.S3Config{
			Bucket:    cmd.S3Bucket,
			Region:    cmd.S3Region,
			Endpoint:  cmd.S3Endpoint,
			AccessKey: cmd.S3AccessKey,
			SecretKey: cmd.S3SecretKey,
		})
	}
	return storage.NewLocalPhotoStore(cmd.PhotoDir)
}

// csrfMiddlewareConfig checks form posts. JSON requests are exempt since a
// cross-site form cannot send that content type.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
		},
		KeyLookup:      "form:csrf_token",
		CookieName:     "bristol_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

func resolveSecretKey() (string, error) {
	secretKey := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretPlaceholders[secretKey]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
