package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/SShahid97/marcos/internal/config"
	"github.com/SShahid97/marcos/internal/handlers"
	"github.com/SShahid97/marcos/internal/middleware"
	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/repositories"
	"github.com/SShahid97/marcos/internal/services"
)

func setupMiddlewareApp() (*fiber.App, *services.AuthService, *repositories.MockUserRepository) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, "test_jwt_secret", time.Hour, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(config.EnvProduction),
	})
	app.Get("/me", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		return c.JSON(user)
	})
	app.Post("/admin-only", middleware.AuthRequired(authService), middleware.RoleRequired(authService, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	return app, authService, userRepo
}

func registerUser(t *testing.T, repo *repositories.MockUserRepository, authService *services.AuthService, role models.Role, email string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		UserType:  role,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "irrelevant-hash",
	}
	assert.NoError(t, repo.Create(user))
	token, err := authService.IssueToken(user)
	assert.NoError(t, err)
	return user, token
}

func TestAuthRequired_MissingOrMalformedHeader(t *testing.T) {
	app, _, _ := setupMiddlewareApp()

	// No Authorization header
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Wrong scheme
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abcdef")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Bearer with a garbage token
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRequired_ValidToken(t *testing.T) {
	app, authService, userRepo := setupMiddlewareApp()
	_, token := registerUser(t, userRepo, authService, models.RoleRegular, "user@example.com")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRequired_UserNoLongerExists(t *testing.T) {
	app, authService, userRepo := setupMiddlewareApp()
	user, token := registerUser(t, userRepo, authService, models.RoleRegular, "gone@example.com")

	// The token stays valid, but the identity behind it is gone.
	userRepo.Delete(user.ID)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRoleRequired(t *testing.T) {
	app, authService, userRepo := setupMiddlewareApp()
	_, adminToken := registerUser(t, userRepo, authService, models.RoleAdmin, "admin@example.com")
	_, regularToken := registerUser(t, userRepo, authService, models.RoleRegular, "regular@example.com")

	// Admin passes the role gate
	req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Regular user is authenticated but forbidden
	req = httptest.NewRequest(http.MethodPost, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+regularToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
