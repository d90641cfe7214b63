package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"onyx-tutor/internal/cache"
	"onyx-tutor/internal/config"
	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/repository"
	"onyx-tutor/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokenTypeAccess   = "access"
	tokenTypeRefresh  = "refresh"
)

var (
	ErrInvalidAuthState      = errors.New("invalid oauth state")
	ErrFailedToExchangeToken = errors.New("failed to exchange oauth token")
	ErrFailedToGetUserInfo   = errors.New("failed to get user info from google")
	ErrInvalidJWTToken       = errors.New("invalid jwt token")
)

// AuthService is the server half of the auth provider: email/password
// accounts, token issuance and revocation, and Google sign-in.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	GetGoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	userRepo     repository.UserRepository
	cache        domain.Cache
	txManager    domain.TransactionManager
	validator    *validation.Validator
	oauth2Config *oauth2.Config
	appConfig    *config.Config
	userInfoURL  string
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repository.UserRepository, authCache domain.Cache, txManager domain.TransactionManager, appConfig *config.Config) (AuthService, error) {
	if appConfig.JWT.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		cache:     authCache,
		txManager: txManager,
		validator: validation.NewValidator(),
		oauth2Config: &oauth2.Config{
			ClientID:     appConfig.GoogleOAuth.ClientID,
			ClientSecret: appConfig.GoogleOAuth.ClientSecret,
			RedirectURL:  appConfig.GoogleOAuth.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		appConfig:   appConfig,
		userInfoURL: googleUserInfoURL,
	}, nil
}

// Register creates an email/password account. It does not sign the user in.
func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if errs := s.validator.ValidateEmail(email); len(errs) > 0 {
		return nil, domain.NewAuthError(domain.AuthCodeInvalidEmail, "The email address is badly formatted.")
	}
	if errs := s.validator.ValidatePassword(password); len(errs) > 0 {
		return nil, domain.NewAuthError(domain.AuthCodeWeakPassword, "Password should be at least 6 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUser(email)
	user.PasswordHash = string(hash)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.userRepo.GetUserByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewAuthError(domain.AuthCodeEmailInUse, "The email address is already in use by another account.")
		}
		return s.userRepo.CreateUser(txCtx, user)
	})
	if err != nil {
		var authErr *domain.AuthError
		switch {
		case errors.As(err, &authErr):
			return nil, authErr
		case errors.Is(err, repository.ErrDuplicate):
			return nil, domain.NewAuthError(domain.AuthCodeEmailInUse, "The email address is already in use by another account.")
		default:
			return nil, domain.NewInternalError("failed to register user", err)
		}
	}

	logger.Get().Info("User registered", zap.String("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

// SignIn checks the password and issues a token pair. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	email = strings.ToLower(strings.TrimSpace(email))
	if errs := s.validator.ValidateEmail(email); len(errs) > 0 {
		return nil, domain.NewAuthError(domain.AuthCodeInvalidEmail, "The email address is badly formatted.")
	}

	if s.isLockedOut(ctx, email) {
		appLogger.Warn("Sign-in rejected, too many failed attempts", zap.String("email", email))
		return nil, domain.NewAuthError(domain.AuthCodeTooManyRequests,
			"Access to this account has been temporarily disabled due to many failed login attempts.")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailedLogin(ctx, email)
		return nil, domain.NewAuthError(domain.AuthCodeInvalidCredential, "The supplied auth credential is incorrect.")
	}

	if err := s.cache.Delete(ctx, cache.FailedLoginsKey(email)); err != nil {
		appLogger.Warn("Failed to reset failed-login counter", zap.String("email", email), zap.Error(err))
	}

	appLogger.Info("User signed in", zap.String("userID", user.ID))
	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) isLockedOut(ctx context.Context, email string) bool {
	limit := s.appConfig.Auth.MaxFailedLogins
	if limit <= 0 {
		return false
	}
	val, err := s.cache.Get(ctx, cache.FailedLoginsKey(email))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read failed-login counter", zap.String("email", email), zap.Error(err))
		}
		return false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return false
	}
	return count >= limit
}

func (s *authServiceImpl) recordFailedLogin(ctx context.Context, email string) {
	count, err := s.cache.CountWithin(ctx, cache.FailedLoginsKey(email), s.appConfig.Auth.LockoutWindow)
	if err != nil {
		logger.Get().Warn("Failed to record failed login", zap.String("email", email), zap.Error(err))
		return
	}
	if limit := s.appConfig.Auth.MaxFailedLogins; limit > 0 && int(count) == limit {
		logger.Get().Warn("Sign-in locked after repeated failures", zap.String("email", email), zap.Int64("failures", count))
	}
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	accessToken, err := s.CreateJWT(ctx, user, s.appConfig.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user, s.appConfig.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("failed to create refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.appConfig.JWT.AccessTokenTTL.Seconds()),
		User:         &dto.UserResponse{ID: user.ID, Email: user.Email},
	}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.JWT.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

// validateRefreshToken parses a refresh token and rejects revoked ones.
func (s *authServiceImpl) validateRefreshToken(ctx context.Context, refreshToken string) (*dto.AuthClaims, error) {
	claims, err := s.ValidateJWT(ctx, refreshToken)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewAuthError(domain.AuthCodeInvalidToken, "The refresh token is invalid or expired.")
	}

	_, err = s.cache.Get(ctx, cache.RevokedTokenKey(claims.ID))
	switch {
	case err == nil:
		return nil, domain.NewAuthError(domain.AuthCodeInvalidToken, "The refresh token has been revoked.")
	case errors.Is(err, domain.ErrCacheMiss):
		return claims, nil
	default:
		return nil, domain.NewInternalError("failed to check token revocation", err)
	}
}

// RefreshToken rotates a refresh token: the presented one is revoked and a
// fresh pair is returned.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user for refresh token", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("User %s not found for refresh token", claims.UserID))
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}

	logger.Get().Info("JWT token refreshed", zap.String("userID", user.ID))
	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token until it would have expired anyway.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	logger.Get().Info("User signed out", zap.String("userID", claims.UserID))
	return nil
}

func (s *authServiceImpl) revoke(ctx context.Context, claims *dto.AuthClaims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.cache.Set(ctx, cache.RevokedTokenKey(claims.ID), claims.UserID, ttl); err != nil {
		return domain.NewInternalError("failed to revoke token", err)
	}
	return nil
}

func (s *authServiceImpl) GetGoogleLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// HandleGoogleCallback signs in with Google. An existing account with the
// same email is linked rather than duplicated.
func (s *authServiceImpl) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	if receivedState == "" || receivedState != expectedState {
		return nil, ErrInvalidAuthState
	}

	googleToken, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToExchangeToken, err)
	}

	userInfo, err := s.fetchGoogleUserInfo(ctx, googleToken)
	if err != nil {
		return nil, err
	}

	user, err := s.linkGoogleUser(ctx, userInfo)
	if err != nil {
		return nil, err
	}

	appLogger.Info("User signed in via Google OAuth", zap.String("userID", user.ID), zap.String("email", user.Email))
	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	client := s.oauth2Config.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err)
	}
	defer resp.Body.Close()

	var userInfo dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if userInfo.ID == "" || userInfo.Email == "" {
		return nil, errors.New("google user info is incomplete")
	}
	return &userInfo, nil
}

func (s *authServiceImpl) linkGoogleUser(ctx context.Context, info *dto.GoogleUserInfo) (*domain.User, error) {
	var user *domain.User
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.GetUserByGoogleID(txCtx, info.ID)
		if err != nil || user != nil {
			return err
		}

		user, err = s.userRepo.GetUserByEmail(txCtx, info.Email)
		if err != nil {
			return err
		}
		if user != nil {
			user.GoogleID = info.ID
			if user.Name == "" {
				user.Name = info.Name
			}
			return s.userRepo.UpdateUser(txCtx, user)
		}

		user = domain.NewUser(info.Email)
		user.GoogleID = info.ID
		user.Name = info.Name
		return s.userRepo.CreateUser(txCtx, user)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to link google account", err)
	}
	return user, nil
}
