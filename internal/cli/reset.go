package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/bristol/internal/db"
	"github.com/terraincognita07/bristol/internal/security"
	"github.com/terraincognita07/bristol/internal/services"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// passwordPrompt reads one secret line after printing label.
type passwordPrompt func(label string) (string, error)

func RunResetPasswordCommand(dbPath string, email string, interactive bool) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)
	authService := services.NewAuthService(repositories.Users)

	var prompt passwordPrompt
	if interactive {
		prompt = terminalPasswordPrompt(os.Stdin, os.Stdout)
	}
	return resetPassword(authService, email, prompt, os.Stdout)
}

// resetPassword sets a temporary password the user must change on next
// login. With a prompt the operator chooses the password instead.
func resetPassword(authService *services.AuthService, email string, prompt passwordPrompt, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("a valid email is required")
	}

	user, err := authService.FindByEmail(normalizedEmail)
	if err != nil {
		return fmt.Errorf("user %s not found", normalizedEmail)
	}

	if prompt != nil {
		password, err := prompt("New password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirmation, err := prompt("Repeat password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if password != confirmation {
			return errors.New("passwords do not match")
		}
		if err := authService.SetPassword(user.ID, password, false); err != nil {
			if errors.Is(err, services.ErrWeakPassword) {
				return errors.New("password needs 8+ characters with upper, lower and digit")
			}
			return fmt.Errorf("update user password: %w", err)
		}
		fmt.Fprintln(out, "✅ Password updated")
		return nil
	}

	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	if err := authService.SetPassword(user.ID, temporaryPassword, true); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintln(out, "✅ Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

// generateTemporaryPassword draws until the result passes the strength policy.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	for {
		password, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
}

func terminalPasswordPrompt(stdin *os.File, out io.Writer) passwordPrompt {
	return func(label string) (string, error) {
		fmt.Fprint(out, label)
		value, err := readSecretLine(stdin)
		fmt.Fprintln(out)
		return value, err
	}
}
