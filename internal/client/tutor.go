package client

import (
	"context"
	"errors"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// Tutor calls the tutor endpoints. Each call carries the caller's ID token.
type Tutor struct {
	api *Client
}

func NewTutor(api *Client) *Tutor {
	return &Tutor{api: api}
}

func (t *Tutor) AskAI(ctx context.Context, idToken, topic string, messages []domain.ConversationTurn) (string, error) {
	var resp dto.AskAIResponse
	req := dto.AskAIRequest{Topic: topic, Messages: messages}
	fallback := errorMessages{
		unparsable: fixedMessage("Failed to parse error."),
		missing:    statusMessage("Server error %d"),
	}
	if err := t.api.do(ctx, fiber.MethodPost, "/ask-ai", idToken, req, &resp, fallback); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (t *Tutor) SaveLesson(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn) error {
	req := dto.SaveLessonRequest{Topic: topic, Conversation: conversation}
	fallback := errorMessages{
		unparsable: statusMessage("Server responded with an error: %d"),
		missing:    statusMessage("Server responded with an error: %d"),
	}
	return t.api.do(ctx, fiber.MethodPost, "/save-lesson", idToken, req, nil, fallback)
}

// generateQuizReply also accepts an error reported with a 2xx status.
type generateQuizReply struct {
	QuizContent *domain.QuizContent `json:"quiz_content"`
	Error       string              `json:"error"`
}

func (t *Tutor) GenerateQuiz(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error) {
	req := dto.GenerateQuizRequest{
		Topic:              topic,
		Conversation:       conversation,
		ConversationLength: conversationLength,
	}
	fallback := errorMessages{
		unparsable: statusMessage("Server error: %d"),
		missing:    statusMessage("Server error: %d"),
	}
	var reply generateQuizReply
	if err := t.api.do(ctx, fiber.MethodPost, "/generate-quiz", idToken, req, &reply, fallback); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, &APIError{Status: fiber.StatusOK, Message: reply.Error}
	}
	if reply.QuizContent == nil {
		return nil, errMissingQuizContent
	}
	return reply.QuizContent, nil
}

var errMissingQuizContent = errors.New("Quiz response was empty.")
