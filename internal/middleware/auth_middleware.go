package middleware

import (
	"context"
	"strings"

	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	EmailKey            = "email"
	TokenKey            = "token"

	tokenTypeAccess = "access"
)

const (
	msgTokenMissing = "Authorization token is missing!"
	msgTokenInvalid = "Invalid or expired token!"
)

// TokenValidator is the part of service.AuthService the middleware needs.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// Protected requires a valid access token. A missing token is a 401 and an
// unusable one a 403; both answer with {"error": ...} like the tutor
// endpoints do. On success the caller's id and email are stored in locals.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msgTokenMissing})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msgTokenMissing})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msgTokenMissing})
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msgTokenInvalid})
		}

		// Refresh tokens cannot be used as ID tokens.
		if claims.TokenType != tokenTypeAccess {
			logger.Get().Debug("Rejected non-access token", zap.String("tokenType", claims.TokenType))
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msgTokenInvalid})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(EmailKey, claims.Email)
		c.Locals(TokenKey, tokenString)

		return c.Next()
	}
}

// UserID returns the id stored by Protected, or "".
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}
