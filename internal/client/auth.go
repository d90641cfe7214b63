package client

import (
	"context"
	"sync"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Auth is the auth provider backed by /api/auth. The signed-in user
// survives restarts through a CredentialStore.
type Auth struct {
	api   *Client
	creds CredentialStore
	now   func() time.Time

	// Refresh tokens rotate, so concurrent refreshes must share one call.
	refreshGroup singleflight.Group

	mu        sync.Mutex
	current   *Credentials
	listeners map[int]func(*domain.User)
	nextID    int
}

// NewAuth restores any stored sign-in. Unreadable credentials are
// discarded.
func NewAuth(api *Client, creds CredentialStore) *Auth {
	a := &Auth{
		api:       api,
		creds:     creds,
		now:       time.Now,
		listeners: make(map[int]func(*domain.User)),
	}
	stored, err := creds.Load()
	if err != nil {
		logger.Get().Warn("Discarding stored credentials", zap.Error(err))
		_ = creds.Clear()
	}
	a.current = stored
	return a
}

func userOf(c *Credentials) *domain.User {
	if c == nil {
		return nil
	}
	return &domain.User{ID: c.UserID, Email: c.Email}
}

func (a *Auth) CurrentUser() *domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return userOf(a.current)
}

func (a *Auth) OnAuthStateChanged(fn func(*domain.User)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	user := userOf(a.current)
	a.mu.Unlock()

	fn(user)
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// setCurrent stores creds (nil signs out) and tells the listeners when the
// signed-in user changed.
func (a *Auth) setCurrent(creds *Credentials) {
	a.mu.Lock()
	before := userOf(a.current)
	a.current = creds
	after := userOf(creds)
	var fns []func(*domain.User)
	if !sameUser(before, after) {
		for _, fn := range a.listeners {
			fns = append(fns, fn)
		}
	}
	a.mu.Unlock()

	if creds == nil {
		if err := a.creds.Clear(); err != nil {
			logger.Get().Warn("Failed to clear credentials", zap.Error(err))
		}
	} else if err := a.creds.Save(creds); err != nil {
		logger.Get().Warn("Failed to persist credentials", zap.Error(err))
	}

	for _, fn := range fns {
		fn(after)
	}
}

func sameUser(a, b *domain.User) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}

func (a *Auth) credentialsFrom(tokens *dto.TokenResponse, previous *Credentials) *Credentials {
	creds := &Credentials{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    a.now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}
	if tokens.User != nil {
		creds.UserID = tokens.User.ID
		creds.Email = tokens.User.Email
	} else if previous != nil {
		creds.UserID = previous.UserID
		creds.Email = previous.Email
	}
	return creds
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var tokens dto.TokenResponse
	req := dto.CredentialsRequest{Email: email, Password: password}
	if err := a.api.do(ctx, fiber.MethodPost, "/api/auth/login", "", req, &tokens, serverErrorMessages); err != nil {
		return nil, err
	}
	creds := a.credentialsFrom(&tokens, nil)
	a.setCurrent(creds)
	logger.Get().Info("Signed in", zap.String("userID", creds.UserID))
	return userOf(creds), nil
}

// Register creates an account. The new user is not signed in.
func (a *Auth) Register(ctx context.Context, email, password string) (*domain.User, error) {
	var user dto.UserResponse
	req := dto.CredentialsRequest{Email: email, Password: password}
	if err := a.api.do(ctx, fiber.MethodPost, "/api/auth/register", "", req, &user, serverErrorMessages); err != nil {
		return nil, err
	}
	return &domain.User{ID: user.ID, Email: user.Email}, nil
}

// SignOut revokes the refresh token and forgets the local sign-in. The
// local sign-in is dropped even when the server call fails.
func (a *Auth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	creds := a.current
	a.mu.Unlock()
	if creds == nil {
		return nil
	}

	req := dto.RefreshTokenRequest{RefreshToken: creds.RefreshToken}
	err := a.api.do(ctx, fiber.MethodPost, "/api/auth/logout", creds.AccessToken, req, nil, serverErrorMessages)
	if err != nil {
		logger.Get().Warn("Server sign-out failed", zap.Error(err))
	}
	a.setCurrent(nil)
	return nil
}

// IDToken returns an access token for API calls, refreshing it when it is
// expired or forceRefresh is set. A rejected refresh signs the user out.
func (a *Auth) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	a.mu.Lock()
	creds := a.current
	a.mu.Unlock()
	if creds == nil {
		return "", domain.NewAuthError(domain.AuthCodeInvalidToken, "No user is signed in.")
	}
	if !forceRefresh && !creds.Expired(a.now()) {
		return creds.AccessToken, nil
	}

	token, err, _ := a.refreshGroup.Do("refresh", func() (any, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (a *Auth) refresh(ctx context.Context) (string, error) {
	a.mu.Lock()
	creds := a.current
	a.mu.Unlock()
	if creds == nil {
		return "", domain.NewAuthError(domain.AuthCodeInvalidToken, "No user is signed in.")
	}

	var tokens dto.TokenResponse
	req := dto.RefreshTokenRequest{RefreshToken: creds.RefreshToken}
	if err := a.api.do(ctx, fiber.MethodPost, "/api/auth/refresh", "", req, &tokens, serverErrorMessages); err != nil {
		if domain.AuthCode(err) != "" {
			logger.Get().Warn("Refresh rejected, signing out", zap.Error(err))
			a.setCurrent(nil)
		}
		return "", err
	}
	refreshed := a.credentialsFrom(&tokens, creds)
	a.setCurrent(refreshed)
	return refreshed.AccessToken, nil
}
