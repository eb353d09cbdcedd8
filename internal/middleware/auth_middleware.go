package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/services"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

const userContextKey = "user"

// AuthRequired is a Fiber middleware that extracts a bearer token, verifies
// it, loads the identity it refers to, and attaches the user to the request
// context. On any failure the request never reaches the handler.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperrors.NewUnauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperrors.NewUnauthorized("Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.Authenticate(parts[1])
		if err != nil {
			return err
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RoleRequired is a Fiber middleware gating a route to the given set of
// roles. It must run after AuthRequired.
func RoleRequired(authService *services.AuthService, allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthorized("Authentication required")
		}
		if err := authService.Authorize(user, allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userContextKey).(*models.User)
	return user, ok
}
