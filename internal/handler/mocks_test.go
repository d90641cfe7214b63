package handler_test

import (
	"context"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
)

// --- Manual Mocks ---

// MockAuthService
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, email, password string) (*domain.User, error)
	SignInFunc               func(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	RefreshTokenFunc         func(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	LogoutFunc               func(ctx context.Context, refreshToken string) error
	ValidateJWTFunc          func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	HandleGoogleCallbackFunc func(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	panic("MockAuthService.SignInFunc not implemented")
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	panic("MockAuthService.LogoutFunc not implemented")
}

// ValidateJWT accepts "good-token" as user U1 unless ValidateJWTFunc is set.
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	if tokenString == "good-token" {
		return &dto.AuthClaims{UserID: "U1", Email: "ada@example.com", TokenType: "access"}, nil
	}
	return nil, domain.NewAuthError(domain.AuthCodeInvalidToken, "bad token")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	panic("not implemented in mock")
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error) {
	if m.HandleGoogleCallbackFunc != nil {
		return m.HandleGoogleCallbackFunc(ctx, code, receivedState, expectedState)
	}
	panic("MockAuthService.HandleGoogleCallbackFunc not implemented")
}

// MockUserService
type MockUserService struct {
	GetUserProfileFunc  func(ctx context.Context, userID string) (*dto.UserResponse, error)
	SaveQuizResultFunc  func(ctx context.Context, result *domain.QuizResult) error
	ListQuizResultsFunc func(ctx context.Context, userID string) ([]domain.QuizResult, error)
	GetQuizResultFunc   func(ctx context.Context, userID, id string) (*domain.QuizResult, error)
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetUserProfileFunc not implemented")
}

func (m *MockUserService) SaveQuizResult(ctx context.Context, result *domain.QuizResult) error {
	if m.SaveQuizResultFunc != nil {
		return m.SaveQuizResultFunc(ctx, result)
	}
	panic("MockUserService.SaveQuizResultFunc not implemented")
}

func (m *MockUserService) ListQuizResults(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	if m.ListQuizResultsFunc != nil {
		return m.ListQuizResultsFunc(ctx, userID)
	}
	panic("MockUserService.ListQuizResultsFunc not implemented")
}

func (m *MockUserService) GetQuizResult(ctx context.Context, userID, id string) (*domain.QuizResult, error) {
	if m.GetQuizResultFunc != nil {
		return m.GetQuizResultFunc(ctx, userID, id)
	}
	panic("MockUserService.GetQuizResultFunc not implemented")
}

// MockLessonService
type MockLessonService struct {
	SaveFunc  func(ctx context.Context, userID, topic string, conversation []domain.ConversationTurn) (*domain.Lesson, error)
	CountFunc func(ctx context.Context, userID string) (int, error)
}

func (m *MockLessonService) Save(ctx context.Context, userID, topic string, conversation []domain.ConversationTurn) (*domain.Lesson, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, userID, topic, conversation)
	}
	panic("MockLessonService.SaveFunc not implemented")
}

func (m *MockLessonService) Count(ctx context.Context, userID string) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, userID)
	}
	panic("MockLessonService.CountFunc not implemented")
}

// MockTutorService
type MockTutorService struct {
	AskFunc          func(ctx context.Context, topic string, messages []domain.ConversationTurn) (string, error)
	GenerateQuizFunc func(ctx context.Context, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error)
}

func (m *MockTutorService) Ask(ctx context.Context, topic string, messages []domain.ConversationTurn) (string, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, topic, messages)
	}
	panic("MockTutorService.AskFunc not implemented")
}

func (m *MockTutorService) GenerateQuiz(ctx context.Context, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, topic, conversation, conversationLength)
	}
	panic("MockTutorService.GenerateQuizFunc not implemented")
}
