package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"onyx-tutor/internal/cache"
	"onyx-tutor/internal/config"
	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "testsecretkeydontuseinproduction32bytes!",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Auth: config.AuthConfig{MaxFailedLogins: 3, LockoutWindow: 15 * time.Minute},
	}
}

func newTestAuthService(t *testing.T) (AuthService, *MockUserRepository, *MockCache) {
	t.Helper()
	userRepo := new(MockUserRepository)
	mockCache := new(MockCache)
	svc, err := NewAuthService(userRepo, mockCache, &MockTransactionManager{}, testAuthConfig())
	require.NoError(t, err)
	return svc, userRepo, mockCache
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(new(MockUserRepository), new(MockCache), &MockTransactionManager{}, &config.Config{})
	assert.Error(t, err)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(nil, nil)
		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, " Ada@Example.com ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
		userRepo.AssertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		_, err := svc.Register(ctx, "not-an-email", "secret1")
		assert.Equal(t, domain.AuthCodeInvalidEmail, domain.AuthCode(err))
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, err := svc.Register(ctx, "ada@example.com", "12345")
		assert.Equal(t, domain.AuthCodeWeakPassword, domain.AuthCode(err))
	})

	t.Run("email already registered", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(&domain.User{ID: "U1"}, nil)

		_, err := svc.Register(ctx, "ada@example.com", "secret1")
		assert.Equal(t, domain.AuthCodeEmailInUse, domain.AuthCode(err))
	})

	t.Run("insert race maps duplicate to email in use", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(nil, nil)
		userRepo.On("CreateUser", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		_, err := svc.Register(ctx, "ada@example.com", "secret1")
		assert.Equal(t, domain.AuthCodeEmailInUse, domain.AuthCode(err))
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		dbErr := errors.New("connection reset")
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(nil, dbErr)

		_, err := svc.Register(ctx, "ada@example.com", "secret1")
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeInternal, domainErr.Code)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	key := cache.FailedLoginsKey("ada@example.com")

	t.Run("success resets the failure counter", func(t *testing.T) {
		svc, userRepo, mockCache := newTestAuthService(t)
		user := &domain.User{ID: "U1", Email: "ada@example.com", PasswordHash: hashed(t, "secret1")}
		mockCache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		mockCache.On("Delete", mock.Anything, key).Return(nil)

		tokens, err := svc.SignIn(ctx, "ada@example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, int64(900), tokens.ExpiresIn)
		assert.Equal(t, "ada@example.com", tokens.User.Email)

		claims, err := svc.ValidateJWT(ctx, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "U1", claims.UserID)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.ID)
		mockCache.AssertExpectations(t)
	})

	t.Run("wrong password counts a failure and starts the window", func(t *testing.T) {
		svc, userRepo, mockCache := newTestAuthService(t)
		user := &domain.User{ID: "U1", Email: "ada@example.com", PasswordHash: hashed(t, "secret1")}
		mockCache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		mockCache.On("CountWithin", mock.Anything, key, 15*time.Minute).Return(int64(1), nil)

		_, err := svc.SignIn(ctx, "ada@example.com", "wrong-password")
		assert.Equal(t, domain.AuthCodeInvalidCredential, domain.AuthCode(err))
		mockCache.AssertExpectations(t)
	})

	t.Run("unknown user looks like a bad password", func(t *testing.T) {
		svc, userRepo, mockCache := newTestAuthService(t)
		mockCache.On("Get", mock.Anything, key).Return("1", nil)
		userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(nil, nil)
		mockCache.On("CountWithin", mock.Anything, key, 15*time.Minute).Return(int64(2), nil)

		_, err := svc.SignIn(ctx, "ada@example.com", "whatever")
		assert.Equal(t, domain.AuthCodeInvalidCredential, domain.AuthCode(err))
		mockCache.AssertExpectations(t)
	})

	t.Run("locked out after too many failures", func(t *testing.T) {
		svc, userRepo, mockCache := newTestAuthService(t)
		mockCache.On("Get", mock.Anything, key).Return("3", nil)

		_, err := svc.SignIn(ctx, "ada@example.com", "secret1")
		assert.Equal(t, domain.AuthCodeTooManyRequests, domain.AuthCode(err))
		userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("malformed email", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, err := svc.SignIn(ctx, "ada-at-example", "secret1")
		assert.Equal(t, domain.AuthCodeInvalidEmail, domain.AuthCode(err))
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "user123", Email: "ada@example.com"}

	t.Run("refresh rotates the token", func(t *testing.T) {
		svc, userRepo, mockCache := newTestAuthService(t)
		refresh, err := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
		require.NoError(t, err)
		claims, err := svc.ValidateJWT(ctx, refresh)
		require.NoError(t, err)

		revokedKey := cache.RevokedTokenKey(claims.ID)
		mockCache.On("Get", mock.Anything, revokedKey).Return("", domain.ErrCacheMiss)
		userRepo.On("GetUserByID", mock.Anything, "user123").Return(user, nil)
		mockCache.On("Set", mock.Anything, revokedKey, "user123", mock.AnythingOfType("time.Duration")).Return(nil)

		tokens, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.NotEqual(t, refresh, tokens.RefreshToken)
		mockCache.AssertExpectations(t)
	})

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		svc, _, mockCache := newTestAuthService(t)
		refresh, _ := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
		mockCache.On("Get", mock.Anything, mock.Anything).Return("user123", nil)

		_, err := svc.RefreshToken(ctx, refresh)
		assert.Equal(t, domain.AuthCodeInvalidToken, domain.AuthCode(err))
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		access, _ := svc.CreateJWT(ctx, user, time.Hour, tokenTypeAccess)

		_, err := svc.RefreshToken(ctx, access)
		assert.Equal(t, domain.AuthCodeInvalidToken, domain.AuthCode(err))
	})

	t.Run("user not found", func(t *testing.T) {
		svc, userRepo, mockCache := newTestAuthService(t)
		refresh, _ := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
		mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
		userRepo.On("GetUserByID", mock.Anything, "user123").Return(nil, nil)

		_, err := svc.RefreshToken(ctx, refresh)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})

	t.Run("logout revokes until expiry", func(t *testing.T) {
		svc, _, mockCache := newTestAuthService(t)
		refresh, _ := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
		mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
		mockCache.On("Set", mock.Anything, mock.Anything, "user123", mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 59*time.Minute && ttl <= time.Hour
		})).Return(nil)

		require.NoError(t, svc.Logout(ctx, refresh))
		mockCache.AssertExpectations(t)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		expired, _ := svc.CreateJWT(ctx, user, -time.Minute, tokenTypeRefresh)

		_, err := svc.ValidateJWT(ctx, expired)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
		assert.Equal(t, domain.AuthCodeInvalidToken, domain.AuthCode(svc.Logout(ctx, expired)))
	})
}

func TestAuthService_HandleGoogleCallback_StateMismatch(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.HandleGoogleCallback(context.Background(), "code", "state-a", "state-b")
	assert.ErrorIs(t, err, ErrInvalidAuthState)

	_, err = svc.HandleGoogleCallback(context.Background(), "code", "", "")
	assert.ErrorIs(t, err, ErrInvalidAuthState)
}

func TestAuthService_LinkGoogleUser(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService(t)
	impl := svc.(*authServiceImpl)

	existing := &domain.User{ID: "U1", Email: "ada@example.com", PasswordHash: "hash"}
	userRepo.On("GetUserByGoogleID", mock.Anything, "g-1").Return(nil, nil)
	userRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(existing, nil)
	userRepo.On("UpdateUser", mock.Anything, existing).Return(nil)

	user, err := impl.linkGoogleUser(ctx, &dto.GoogleUserInfo{ID: "g-1", Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)
	assert.Equal(t, "g-1", user.GoogleID)
	assert.Equal(t, "Ada", user.Name)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}
