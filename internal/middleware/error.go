package middleware

import (
	"errors"
	"net/http"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorResponse is the body of every non-tutor error reply.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists each rejected field.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

type problem struct {
	status int
	level  zapcore.Level
	body   interface{}
	cause  error
}

func classify(err error) problem {
	var validationErrs domain.ValidationErrors
	var authErr *domain.AuthError
	var domainErr *domain.DomainError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErrs):
		return problem{
			status: http.StatusBadRequest,
			level:  zapcore.WarnLevel,
			body: ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			},
		}

	case errors.As(err, &authErr):
		status := authStatus(authErr.Code)
		return problem{
			status: status,
			level:  levelFor(status, zapcore.InfoLevel),
			body:   ErrorResponse{Code: authErr.Code, Message: authErr.Message, Status: status},
		}

	case errors.As(err, &domainErr):
		status := domainStatus(domainErr.Code)
		return problem{
			status: status,
			level:  levelFor(status, zapcore.WarnLevel),
			body: ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  status,
				Details: domainErr.Context,
			},
			cause: domainErr.Err,
		}

	case errors.As(err, &fiberErr):
		return problem{
			status: fiberErr.Code,
			level:  levelFor(fiberErr.Code, zapcore.WarnLevel),
			body:   ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message, Status: fiberErr.Code},
		}
	}

	return problem{
		status: http.StatusInternalServerError,
		level:  zapcore.ErrorLevel,
		body: ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		},
		cause: err,
	}
}

func levelFor(status int, below5xx zapcore.Level) zapcore.Level {
	if status >= http.StatusInternalServerError {
		return zapcore.ErrorLevel
	}
	return below5xx
}

// ErrorHandler renders errors returned from handlers as JSON. Internal
// causes are logged but never sent to the client.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		p := classify(err)
		if ce := logger.Get().Check(p.level, "Request failed"); ce != nil {
			ce.Write(
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", p.status),
				zap.String("error", err.Error()),
				zap.NamedError("cause", p.cause),
			)
		}
		return c.Status(p.status).JSON(p.body)
	}
}

// StatusForError is the HTTP status ErrorHandler would answer err with.
func StatusForError(err error) int {
	return classify(err).status
}

func authStatus(code string) int {
	switch code {
	case domain.AuthCodeInvalidEmail, domain.AuthCodeWeakPassword:
		return http.StatusBadRequest
	case domain.AuthCodeEmailInUse:
		return http.StatusConflict
	case domain.AuthCodeTooManyRequests:
		return http.StatusTooManyRequests
	case domain.AuthCodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

func domainStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeQuizResultNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeLLMServiceError:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
