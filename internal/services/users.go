package services

import (
	"errors"
	"strings"

	"github.com/Glutix/blog-musical/internal/models"
	"github.com/Glutix/blog-musical/internal/utils"

	"gorm.io/gorm"
)

const passwordMinLen = 6

// IsModerator is the default capability check injected into the services
// that honor moderation: admins may edit or delete content they do not own.
func IsModerator(u *models.User) bool {
	return u != nil && u.IsAdmin()
}

// UserService creates user records and verifies credentials. Sessions and
// tokens live in the layer above.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a bcrypt password hash. Email uniqueness is
// enforced by the index and reported as a validation failure.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "el nombre de usuario no puede estar vacío"}
	}
	if !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Message: "el correo no es válido"}
	}
	if len(password) < passwordMinLen {
		return nil, &ValidationError{Field: "password", Message: "la contraseña debe tener al menos 6 caracteres"}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Field: "email", Message: "el correo ya está registrado"}
		}
		return nil, err
	}
	return &user, nil
}

// VerifyPassword loads the user by email and compares the password against
// the stored hash. An unknown email is ErrNotFound; a wrong password is
// ErrPermissionDenied.
func (s *UserService) VerifyPassword(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrPermissionDenied
	}
	return &user, nil
}
