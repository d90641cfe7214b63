package dto

import (
	"time"

	"onyx-tutor/internal/domain"
)

// AskAIRequest is the body of POST /ask-ai.
// @Description Conversation so far and the lesson topic
type AskAIRequest struct {
	Topic    string                    `json:"topic"`
	Messages []domain.ConversationTurn `json:"messages"`
}

// AskAIResponse carries the tutor's reply.
type AskAIResponse struct {
	Response string `json:"response"`
}

// SaveLessonRequest is the body of POST /save-lesson.
// @Description Lesson transcript to persist
type SaveLessonRequest struct {
	Topic        string                    `json:"topic"`
	Conversation []domain.ConversationTurn `json:"conversation"`
}

// SuccessResponse is returned by /save-lesson.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// GenerateQuizRequest is the body of POST /generate-quiz.
// @Description Transcript the quiz is derived from
type GenerateQuizRequest struct {
	Topic              string                    `json:"topic"`
	Conversation       []domain.ConversationTurn `json:"conversation"`
	ConversationLength int                       `json:"conversationLength"`
}

// GenerateQuizResponse wraps the generated quiz.
type GenerateQuizResponse struct {
	QuizContent domain.QuizContent `json:"quiz_content"`
}

// LessonCountResponse is returned by GET /api/users/me/lessons/count.
type LessonCountResponse struct {
	Count int `json:"count"`
}

// QuizResultRequest is the body of POST /api/users/me/quiz-results.
// @Description Completed quiz attempt
type QuizResultRequest struct {
	Topic          string                `json:"topic"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Questions      []domain.QuizQuestion `json:"questions"`
	UserAnswers    []string              `json:"userAnswers"`
}

// QuizResultResponse is one stored quiz result.
// @Description Stored quiz result
type QuizResultResponse struct {
	ID             string                `json:"id"`
	Topic          string                `json:"topic"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Date           time.Time             `json:"date"`
	Questions      []domain.QuizQuestion `json:"questions"`
	UserAnswers    []string              `json:"userAnswers"`
}

// QuizResultsResponse lists results newest first.
type QuizResultsResponse struct {
	Results []QuizResultResponse `json:"results"`
}

// NewQuizResultResponse converts a domain result for the wire.
func NewQuizResultResponse(r domain.QuizResult) QuizResultResponse {
	questions := r.Questions
	if questions == nil {
		questions = []domain.QuizQuestion{}
	}
	answers := r.UserAnswers
	if answers == nil {
		answers = []string{}
	}
	return QuizResultResponse{
		ID:             r.ID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Date:           r.Date,
		Questions:      questions,
		UserAnswers:    answers,
	}
}

// ToDomain converts the request into an unsaved result.
func (r QuizResultRequest) ToDomain(userID string) *domain.QuizResult {
	return &domain.QuizResult{
		UserID:         userID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Questions:      r.Questions,
		UserAnswers:    r.UserAnswers,
	}
}

// NewQuizResultRequest is the client side of ToDomain.
func NewQuizResultRequest(r domain.QuizResult) QuizResultRequest {
	return QuizResultRequest{
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Questions:      r.Questions,
		UserAnswers:    r.UserAnswers,
	}
}

func (r QuizResultResponse) ToDomain() domain.QuizResult {
	return domain.QuizResult{
		ID:             r.ID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Date:           r.Date,
		Questions:      r.Questions,
		UserAnswers:    r.UserAnswers,
	}
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
