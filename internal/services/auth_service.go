package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/repositories"
	"github.com/SShahid97/marcos/pkg/apperrors"
	"github.com/SShahid97/marcos/pkg/events"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	mqClient  *events.Client
}

// NewAuthService creates a new AuthService. The signing secret and token
// lifetime come from process configuration. mqClient may be nil, in which
// case registration events are skipped.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, mqClient *events.Client) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		mqClient:  mqClient,
	}
}

// RegisterUser registers a new user, hashes their password, saves them to the
// database, and returns a freshly issued token. The plaintext password never
// leaves this function.
func (s *AuthService) RegisterUser(user *models.User) (string, error) {
	if !user.UserType.Valid() {
		return "", apperrors.NewValidation("Invalid user type")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.NewInternal(fmt.Errorf("failed to hash password: %w", err))
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return "", err
	}

	if s.mqClient != nil {
		if err := s.mqClient.Publish("user.registered", map[string]interface{}{
			"userId": user.ID,
			"email":  user.Email,
		}); err != nil {
			log.Printf("Warning: failed to publish user registered event for user %d: %v", user.ID, err)
		}
	}

	return s.IssueToken(user)
}

// LoginUser authenticates a user by email and password and returns the user
// with a token. Unknown email and wrong password fail identically so the
// response never reveals whether an account exists.
func (s *AuthService) LoginUser(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", apperrors.NewUnauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.NewUnauthorized("Invalid credentials")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken produces a signed HS256 token encoding the user's id and role
// with the configured expiry.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.UserType),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.NewInternal(fmt.Errorf("failed to generate token: %w", err))
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning the embedded user id.
// A bad signature, malformed token, or expired token all fail with 401.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, apperrors.NewUnauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, apperrors.NewUnauthorized("Invalid or expired token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, apperrors.NewUnauthorized("Invalid or expired token")
	}
	return uint(userID), nil
}

// Authenticate verifies a token and loads the identity it refers to. A valid
// token for a user that no longer exists fails with 400.
func (s *AuthService) Authenticate(tokenString string) (*models.User, error) {
	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NewValidation("User no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// Authorize checks the user's role against a set of allowed roles.
func (s *AuthService) Authorize(user *models.User, allowed ...models.Role) error {
	if !user.UserType.OneOf(allowed...) {
		return apperrors.NewForbidden("You don't have permission to perform this action")
	}
	return nil
}
