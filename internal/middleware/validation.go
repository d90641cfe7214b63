package middleware

import (
	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedQuizResultKey holds the *domain.QuizResult parsed by ValidateQuizResult.
const ValidatedQuizResultKey = "validated_quiz_result"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizResult parses a quiz result body for the signed-in user and
// checks its shape. Must run after Protected.
func (vm *ValidationMiddleware) ValidateQuizResult() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.QuizResultRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{
				domain.NewInvalidFormatError("body", "malformed JSON"),
			}
		}

		result := req.ToDomain(UserID(c))
		if errors := vm.validator.ValidateQuizResult(result); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedQuizResultKey, result)
		return c.Next()
	}
}
