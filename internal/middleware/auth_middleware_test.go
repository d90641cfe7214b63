package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (s *stubValidator) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if s.ValidateJWTFunc != nil {
		return s.ValidateJWTFunc(ctx, tokenString)
	}
	return nil, errors.New("ValidateJWTFunc not set")
}

func TestProtected(t *testing.T) {
	tests := []struct {
		name             string
		authHeader       string
		validate         func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
		expectedStatus   int
		expectedBody     string
		expectedUserID   interface{}
		expectNextCalled bool
	}{
		{
			name:           "No Auth Header",
			expectedStatus: fiber.StatusUnauthorized,
			expectedBody:   `{"error":"Authorization token is missing!"}`,
		},
		{
			name:           "Malformed Auth Header - No Bearer",
			authHeader:     "Basic some_token",
			expectedStatus: fiber.StatusUnauthorized,
			expectedBody:   `{"error":"Authorization token is missing!"}`,
		},
		{
			name:           "Bearer No Token",
			authHeader:     "Bearer ",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "Invalid Token",
			authHeader: "Bearer invalid_token",
			validate: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				return nil, errors.New("token is expired")
			},
			expectedStatus: fiber.StatusForbidden,
			expectedBody:   `{"error":"Invalid or expired token!"}`,
		},
		{
			name:       "Refresh Token instead of Access",
			authHeader: "Bearer refresh_token",
			validate: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				return &dto.AuthClaims{UserID: "user456", TokenType: "refresh"}, nil
			},
			expectedStatus: fiber.StatusForbidden,
		},
		{
			name:       "Valid Access Token",
			authHeader: "Bearer valid_access_token",
			validate: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				if tokenString != "valid_access_token" {
					return nil, errors.New("unexpected token")
				}
				return &dto.AuthClaims{UserID: "user123", Email: "ada@example.com", TokenType: "access"}, nil
			},
			expectedStatus:   fiber.StatusOK,
			expectedUserID:   "user123",
			expectNextCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			nextCalled := false
			var userIDLocal interface{}

			app.Get("/protected", middleware.Protected(&stubValidator{ValidateJWTFunc: tc.validate}), func(c *fiber.Ctx) error {
				nextCalled = true
				userIDLocal = c.Locals(middleware.UserIDKey)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			if tc.expectedBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.JSONEq(t, tc.expectedBody, string(body))
			}
			assert.Equal(t, tc.expectNextCalled, nextCalled)
			assert.Equal(t, tc.expectedUserID, userIDLocal)
		})
	}
}

func TestErrorHandler_Codes(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"validation", domain.ValidationErrors{domain.NewMissingFieldError("topic")}, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"auth weak password", domain.NewAuthError(domain.AuthCodeWeakPassword, "weak"), fiber.StatusBadRequest, domain.AuthCodeWeakPassword},
		{"auth email in use", domain.NewAuthError(domain.AuthCodeEmailInUse, "taken"), fiber.StatusConflict, domain.AuthCodeEmailInUse},
		{"auth throttled", domain.NewAuthError(domain.AuthCodeTooManyRequests, "slow down"), fiber.StatusTooManyRequests, domain.AuthCodeTooManyRequests},
		{"auth bad credential", domain.NewAuthError(domain.AuthCodeInvalidCredential, "nope"), fiber.StatusUnauthorized, domain.AuthCodeInvalidCredential},
		{"result not found", domain.NewQuizResultNotFoundError("R1"), fiber.StatusNotFound, "QUIZ_RESULT_NOT_FOUND"},
		{"llm down", domain.NewLLMServiceError(errors.New("dial tcp")), fiber.StatusServiceUnavailable, "LLM_SERVICE_ERROR"},
		{"quiz parse", domain.NewQuizParseError(errors.New("bad json")), fiber.StatusInternalServerError, "QUIZ_PARSE_ERROR"},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/fail", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), `"code":"`+tc.expectedCode+`"`)
		})
	}
}

func TestValidateQuizResult(t *testing.T) {
	newApp := func() *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
		app.Post("/results",
			func(c *fiber.Ctx) error { c.Locals(middleware.UserIDKey, "U1"); return c.Next() },
			middleware.NewValidationMiddleware().ValidateQuizResult(),
			func(c *fiber.Ctx) error {
				result := c.Locals(middleware.ValidatedQuizResultKey).(*domain.QuizResult)
				return c.SendString(result.UserID + ":" + result.Topic)
			})
		return app
	}

	t.Run("valid body reaches the handler", func(t *testing.T) {
		body := `{"topic":"Math","score":1,"totalQuestions":1,
			"questions":[{"type":"enumeration","question":"2+2 is ____.","answer":"4"}],
			"userAnswers":["4"]}`
		req := httptest.NewRequest("POST", "/results", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp().Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		got, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "U1:Math", string(got))
	})

	t.Run("score above total", func(t *testing.T) {
		body := `{"topic":"Math","score":5,"totalQuestions":1,
			"questions":[{"type":"enumeration","question":"2+2 is ____.","answer":"4"}],
			"userAnswers":["4"]}`
		req := httptest.NewRequest("POST", "/results", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp().Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
