package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create persists a new user. A unique-index violation on the email column
// surfaces as a conflict error.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict(fmt.Sprintf("email '%s' is already registered", user.Email))
		}
		return apperrors.NewInternal(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("user with email %s not found", email))
		}
		return nil, apperrors.NewInternal(fmt.Errorf("failed to get user by email %s: %w", email, err))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("user with ID %d not found", id))
		}
		return nil, apperrors.NewInternal(fmt.Errorf("failed to get user by ID %d: %w", id, err))
	}
	return &user, nil
}
