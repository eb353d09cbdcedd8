package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/services"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/signin", h.HandleSignin)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	UserType        string `json:"userType" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// authResponse is the identity payload returned by signup and signin: the
// user's public fields plus a freshly issued token.
type authResponse struct {
	models.User
	Token string `json:"token"`
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		e := validationErrors[0]
		return apperrors.NewValidation(fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}

	user := models.User{
		UserType:  models.Role(req.UserType),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}

	token, err := h.authService.RegisterUser(&user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  fiber.StatusCreated,
		"message": "User created successfully",
		"data":    authResponse{User: user, Token: token},
	})
}

// SigninRequest represents the request body for signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignin handles user login and issues a JWT token.
func (h *AuthHandler) HandleSignin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidation("Please provide email and password")
	}

	user, token, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "User signed in successfully",
		"data":    authResponse{User: *user, Token: token},
	})
}
