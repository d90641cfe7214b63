package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"onyx-tutor/internal/config"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/middleware"
	"onyx-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	oauthStateCookieName = "oauthstate"
)

type AuthHandler struct {
	authService service.AuthService
	appConfig   *config.Config
}

func NewAuthHandler(authService service.AuthService, appConfig *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		appConfig:   appConfig,
	}
}

// Register creates an email/password account.
// @Summary Register
// @Description Creates an account. The caller signs in separately afterwards.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.CredentialsRequest true "Email and password"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} middleware.ErrorResponse "auth/invalid-email or auth/weak-password"
// @Failure 409 {object} middleware.ErrorResponse "auth/email-already-in-use"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse register body", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.authService.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{ID: user.ID, Email: user.Email})
}

// Login signs in with email and password.
// @Summary Login
// @Description Verifies the credentials and issues an ID (access) token and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.CredentialsRequest true "Email and password"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} middleware.ErrorResponse "auth/invalid-credential"
// @Failure 429 {object} middleware.ErrorResponse "auth/too-many-requests"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse login body", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	tokens, err := h.authService.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// GoogleLogin initiates the Google OAuth2 login flow.
// @Summary Initiate Google Login
// @Description Redirects the user to Google's OAuth2 consent page.
// @Tags auth
// @Success 307 {string} string "Redirects to Google"
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	appLogger := logger.Get()
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		appLogger.Error("Failed to generate random state for OAuth", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(middleware.ErrorResponse{
			Code: "OAUTH_STATE_GENERATION_ERROR", Message: "Could not generate state for OAuth flow", Status: fiber.StatusInternalServerError,
		})
	}
	state := base64.URLEncoding.EncodeToString(b)
	appLogger.Debug("Google login process initiated")

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Redirect(h.authService.GetGoogleLoginURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles the callback from Google OAuth2.
// @Summary Google OAuth2 Callback
// @Description Links or creates the account for the Google email and issues tokens.
// @Tags auth
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State string for CSRF protection"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid state or code"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	appLogger := logger.Get()
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	if code == "" {
		appLogger.Warn("Authorization code missing in Google OAuth callback")
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "MISSING_CODE", Message: "Authorization code is missing", Status: fiber.StatusBadRequest,
		})
	}

	tokens, err := h.authService.HandleGoogleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAuthState) || errors.Is(err, service.ErrFailedToExchangeToken) {
			appLogger.Warn("Rejected Google OAuth callback", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
				Code: "OAUTH_CALLBACK_ERROR", Message: err.Error(), Status: fiber.StatusBadRequest,
			})
		}
		appLogger.Error("Failed to handle Google callback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(middleware.ErrorResponse{
			Code: "OAUTH_PROCESSING_ERROR", Message: "Error processing Google login", Status: fiber.StatusInternalServerError,
		})
	}

	return c.JSON(tokens)
}

// RefreshToken exchanges a refresh token for a new token pair.
// @Summary Refresh JWT tokens
// @Description Rotates the refresh token and issues a fresh ID token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Refresh token missing"
// @Failure 401 {object} middleware.ErrorResponse "auth/invalid-id-token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken, err := parseRefreshToken(c)
	if err != nil {
		return err
	}

	tokens, err := h.authService.RefreshToken(c.UserContext(), refreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// Logout revokes the caller's refresh token.
// @Summary Logout user
// @Description Revokes the refresh token. The client discards its ID token.
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse "auth/invalid-id-token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken, err := parseRefreshToken(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.UserContext(), refreshToken); err != nil {
		return err
	}
	logger.Get().Info("User logout request", zap.String("userID", middleware.UserID(c)))
	return c.JSON(dto.MessageResponse{Message: "Logout successful."})
}

func parseRefreshToken(c *fiber.Ctx) (string, error) {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse refresh token body", zap.Error(err))
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Refresh token is missing in request body")
	}
	return token, nil
}
