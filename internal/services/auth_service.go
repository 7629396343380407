package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthEmailExists      = errors.New("auth email exists")
	ErrAuthUserNotFound     = errors.New("auth user not found")
	ErrAuthRegisterFailed   = errors.New("auth register failed")
	ErrAuthPasswordMismatch = errors.New("auth password mismatch")
	ErrPasswordChangeFailed = errors.New("password change failed")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) FindByEmail(rawEmail string) (models.User, error) {
	email := NormalizeAuthEmail(rawEmail)
	if email == "" {
		return models.User{}, ErrAuthUserNotFound
	}
	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrAuthUserNotFound
	}
	return user, nil
}

// Register creates an account after the credential and strength checks.
func (service *AuthService) Register(rawEmail string, rawPassword string, rawConfirm string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(rawEmail, rawPassword)
	if err != nil {
		return models.User{}, err
	}
	if password != strings.TrimSpace(rawConfirm) {
		return models.User{}, ErrAuthPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrAuthRegisterFailed
	}
	if exists {
		return models.User{}, ErrAuthEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, ErrAuthRegisterFailed
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    service.now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, ErrAuthRegisterFailed
	}
	return user, nil
}

// Authenticate answers ErrAuthCredentialsInvalid for unknown emails and wrong
// passwords alike.
func (service *AuthService) Authenticate(rawEmail string, rawPassword string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(rawEmail, rawPassword)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) ChangePassword(user models.User, currentPassword string, newPassword string, confirmPassword string) error {
	if err := ValidatePasswordChange(user.PasswordHash, currentPassword, newPassword, confirmPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordChangeFailed
	}
	if err := service.users.UpdatePassword(user.ID, string(hash), false); err != nil {
		return ErrPasswordChangeFailed
	}
	return nil
}

// SetPassword replaces the password outright. Temporary passwords set
// mustChange so the next login lands on the change form.
func (service *AuthService) SetPassword(userID uint, password string, mustChange bool) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordChangeFailed
	}
	if err := service.users.UpdatePassword(userID, string(hash), mustChange); err != nil {
		return ErrPasswordChangeFailed
	}
	return nil
}
