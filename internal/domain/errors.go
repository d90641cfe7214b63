package domain

import (
	"fmt"
	"strings"
)

// ErrorCode identifies a failure class; the HTTP layer maps each to a status.
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeConflict     ErrorCode = "CONFLICT"

	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	CodeQuizResultNotFound ErrorCode = "QUIZ_RESULT_NOT_FOUND"
	CodeLLMServiceError    ErrorCode = "LLM_SERVICE_ERROR"
	CodeQuizParse          ErrorCode = "QUIZ_PARSE_ERROR"
)

// DomainError carries a user-facing Message and an optional internal cause.
// Only Code, Message and Context reach API clients.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *DomainError) Unwrap() error { return e.Err }

// WithContext adds a client-visible detail and returns e.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = map[string]interface{}{}
	}
	e.Context[key] = value
	return e
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: cause}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// NewQuizResultNotFoundError uses the exact message the review page shows.
func NewQuizResultNotFoundError(id string) *DomainError {
	return NewError(CodeQuizResultNotFound, "Quiz result not found.", nil).WithContext("id", id)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "The AI service is temporarily unavailable.", cause)
}

func NewQuizParseError(cause error) *DomainError {
	return NewError(CodeQuizParse, "Failed to parse quiz from AI response.", cause)
}

// ValidationError rejects a single request field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// ValidationErrors collects every rejected field of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var b strings.Builder
	for i, e := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Message)
	}
	return b.String()
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: field + " is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%s has an invalid format: %v", field, value),
	}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d, got %d", field, min, max, value),
	}
}
