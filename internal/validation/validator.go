package validation

import (
	"regexp"
	"strings"

	"onyx-tutor/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEmail checks presence and shape of an email address.
func (v *Validator) ValidateEmail(email string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	email = strings.TrimSpace(email)
	if email == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if !emailPattern.MatchString(email) {
		errors = append(errors, domain.NewInvalidFormatError("email", email))
	}
	return errors
}

// ValidatePassword enforces the registration password policy.
func (v *Validator) ValidatePassword(password string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(password) < domain.MinPasswordLength {
		errors = append(errors, domain.ValidationError{
			Field:   "password",
			Code:    domain.CodeOutOfRange,
			Message: "password should be at least 6 characters long",
		})
	}
	return errors
}

// ValidateQuizResult checks the shape invariants of a completed quiz:
// one answer slot per question and 0 <= score <= totalQuestions.
func (v *Validator) ValidateQuizResult(r *domain.QuizResult) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(r.Topic) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	}

	if r.TotalQuestions < 0 {
		errors = append(errors, domain.NewOutOfRangeError("totalQuestions", r.TotalQuestions, 0, len(r.Questions)))
	}
	if r.Score < 0 || r.Score > r.TotalQuestions {
		errors = append(errors, domain.NewOutOfRangeError("score", r.Score, 0, r.TotalQuestions))
	}
	if len(r.Questions) > 0 && r.TotalQuestions != len(r.Questions) {
		errors = append(errors, domain.NewOutOfRangeError("totalQuestions", r.TotalQuestions, len(r.Questions), len(r.Questions)))
	}
	if len(r.UserAnswers) != len(r.Questions) {
		errors = append(errors, domain.NewOutOfRangeError("userAnswers", len(r.UserAnswers), len(r.Questions), len(r.Questions)))
	}

	for _, q := range r.Questions {
		if q.Type != domain.QuestionMultipleChoice && q.Type != domain.QuestionEnumeration {
			errors = append(errors, domain.NewInvalidFormatError("questions.type", q.Type))
			break
		}
		if strings.TrimSpace(q.Question) == "" {
			errors = append(errors, domain.NewMissingFieldError("questions.question"))
			break
		}
	}

	return errors
}
