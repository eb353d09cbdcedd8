package services_test

import (
	"errors"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/services"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository, ttl time.Duration) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, ttl, nil)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, time.Hour)

	user := &models.User{
		UserType:  models.RoleAdmin,
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Password:  "password123",
	}

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 1
	}).Return(nil).Once()

	token, err := authService.RegisterUser(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)

	// The stored password must be a hash of the plaintext, never the plaintext.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	// The issued token must carry the user's id and role.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, float64(1), claims["user_id"])
	assert.Equal(t, "1", claims["role"])
}

func TestAuthService_RegisterUser_InvalidUserType(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, time.Hour)

	user := &models.User{
		UserType:  models.Role("9"),
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Password:  "password123",
	}

	_, err := authService.RegisterUser(user)
	assert.Error(t, err)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid user type", appErr.Message)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       7,
		UserType: models.RoleRegular,
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	loggedIn, token, err := authService.LoginUser("test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.LoginUser("test@example.com", "wrongpassword")
	assert.Error(t, err)
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
	mockRepo.AssertExpectations(t)

	// Unknown email fails with the same message as a wrong password.
	mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.NewNotFound("user with email ghost@example.com not found")).Once()
	_, _, err = authService.LoginUser("ghost@example.com", "password123")
	assert.Error(t, err)
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, time.Hour)

	user := &models.User{ID: 42, UserType: models.RoleRegular}
	token, err := authService.IssueToken(user)
	assert.NoError(t, err)

	// Valid token
	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	// Malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	// Token signed with a different secret
	other := services.NewAuthService(mockRepo, "other_secret", time.Hour, nil)
	forged, err := other.IssueToken(user)
	assert.NoError(t, err)
	_, err = authService.ValidateToken(forged)
	assert.Error(t, err)

	// Expired token
	expiring := newAuthService(mockRepo, -time.Minute)
	expired, err := expiring.IssueToken(user)
	assert.NoError(t, err)
	_, err = authService.ValidateToken(expired)
	assert.Error(t, err)
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, time.Hour)

	user := &models.User{ID: 3, UserType: models.RoleAdmin, Email: "admin@example.com"}
	token, err := authService.IssueToken(user)
	assert.NoError(t, err)

	// Identity still exists
	mockRepo.On("GetByID", uint(3)).Return(user, nil).Once()
	loaded, err := authService.Authenticate(token)
	assert.NoError(t, err)
	assert.Equal(t, user.Email, loaded.Email)
	mockRepo.AssertExpectations(t)

	// Valid token for a deleted identity fails with 400
	mockRepo.On("GetByID", uint(3)).Return(nil, apperrors.NewNotFound("user with ID 3 not found")).Once()
	_, err = authService.Authenticate(token)
	assert.Error(t, err)
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "User no longer exists", appErr.Message)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authorize(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, time.Hour)

	admin := &models.User{ID: 1, UserType: models.RoleAdmin}
	regular := &models.User{ID: 2, UserType: models.RoleRegular}

	assert.NoError(t, authService.Authorize(admin, models.RoleAdmin))
	assert.NoError(t, authService.Authorize(regular, models.RoleAdmin, models.RoleRegular))

	err := authService.Authorize(regular, models.RoleAdmin)
	assert.Error(t, err)
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}
