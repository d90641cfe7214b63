// Package frontend holds the page controllers of the tutor client. They
// talk to the outside world only through the interfaces in this file, so
// the same controllers can drive a terminal or a test double.
package frontend

import (
	"context"

	"onyx-tutor/internal/domain"
)

// Routes of the client.
const (
	PathLanding   = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathHome      = "/home"
	PathDashboard = "/dashboard"
	PathLearn     = "/learn"
	PathQuiz      = "/quiz"
	PathReview    = "/review/"
)

// Transient session storage keys used to hand a lesson to the quiz page.
const (
	KeyConversationForQuiz       = "conversationForQuiz"
	KeyTopicForQuiz              = "topicForQuiz"
	KeyConversationLengthForQuiz = "conversationLengthForQuiz"
)

// AuthProvider signs users in and hands out ID tokens. Failures carry a
// *domain.AuthError code where the provider has one.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, email, password string) (*domain.User, error)
	SignOut(ctx context.Context) error
	// OnAuthStateChanged calls fn with the current user right away and
	// again after every sign-in or sign-out. The returned func unsubscribes.
	OnAuthStateChanged(fn func(*domain.User)) (unsubscribe func())
	CurrentUser() *domain.User
	IDToken(ctx context.Context, forceRefresh bool) (string, error)
}

// DocumentStore reads and writes the signed-in user's documents.
type DocumentStore interface {
	CountLessons(ctx context.Context) (int, error)
	// ListQuizResults returns results newest first.
	ListQuizResults(ctx context.Context) ([]domain.QuizResult, error)
	SaveQuizResult(ctx context.Context, result *domain.QuizResult) error
	// GetQuizResult returns nil and no error when the result does not exist.
	GetQuizResult(ctx context.Context, id string) (*domain.QuizResult, error)
}

// TutorAPI is the server's tutor surface. Every call carries an ID token.
type TutorAPI interface {
	AskAI(ctx context.Context, idToken, topic string, messages []domain.ConversationTurn) (string, error)
	SaveLesson(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn) error
	GenerateQuiz(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error)
}

// SessionStorage is process-scoped string storage.
type SessionStorage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Navigator changes the current route.
type Navigator interface {
	Navigate(path string)
}

// Alerter shows a blocking message the user must acknowledge.
type Alerter interface {
	Alert(message string)
}
