package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// Create adds a new user, assigning an autoincrement ID.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperrors.NewConflict(fmt.Sprintf("email '%s' is already registered", user.Email))
		}
	}

	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by their email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFound(fmt.Sprintf("user with email %s not found", email))
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound(fmt.Sprintf("user with ID %d not found", id))
	}
	return &user, nil
}

// Delete removes a user. Only used by tests to simulate an identity that no
// longer exists behind a still-valid token.
func (r *MockUserRepository) Delete(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}
