package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"onyx-tutor/internal/adapter/llm"
	"onyx-tutor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validQuizReply = `{
  "multiple_choice": [
    {"question": "What is 2+2?", "choices": ["3", "4", "5", "6"], "correct": "b"},
    {"question": "Capital of France?", "choices": ["Paris", "Rome", "Oslo", "Bern"], "correct": "A"}
  ],
  "enumeration": [
    {"question": "The powerhouse of the cell is the ____.", "answer": "Mitochondrion"},
    {"question": "H2O is commonly called ____.", "answer": "Water"}
  ]
}`

func TestQuestionsPerType(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{0, 2},
		{1, 2},
		{8, 2},
		{11, 2},
		{12, 3},
		{19, 4},
		{20, 5},
		{100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuestionsPerType(tt.length), "length %d", tt.length)
	}
}

func TestTutorService_Ask(t *testing.T) {
	ctx := context.Background()
	turns := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "Teach me fractions"},
		{Role: domain.RoleAssistant, Content: "A fraction is a part of a whole."},
		{Role: domain.RoleUser, Content: "Like 1/2?"},
	}

	t.Run("success", func(t *testing.T) {
		model := new(MockChatModel)
		model.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
			return strings.Contains(req.System, "**Fractions**") &&
				req.MaxTokens == askMaxTokens &&
				!req.JSON &&
				len(req.Messages) == 3 &&
				req.Messages[1].Role == llm.RoleAssistant
		})).Return(&llm.Response{Content: "Exactly! One half."}, nil)

		reply, err := NewTutorService(model).Ask(ctx, "Fractions", turns)
		require.NoError(t, err)
		assert.Equal(t, "Exactly! One half.", reply)
		model.AssertExpectations(t)
	})

	t.Run("missing topic", func(t *testing.T) {
		model := new(MockChatModel)
		_, err := NewTutorService(model).Ask(ctx, "  ", turns)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
		model.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("model failure", func(t *testing.T) {
		model := new(MockChatModel)
		model.On("Generate", mock.Anything, mock.Anything).Return(nil, &llm.ErrProviderUnavailable{})

		_, err := NewTutorService(model).Ask(ctx, "Fractions", turns)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
		assert.Equal(t, "The AI service is temporarily unavailable.", domainErr.Message)
	})
}

func TestTutorService_GenerateQuiz(t *testing.T) {
	ctx := context.Background()
	conversation := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "What is 2+2?"},
		{Role: domain.RoleAssistant, Content: "It is 4."},
	}

	t.Run("success", func(t *testing.T) {
		model := new(MockChatModel)
		model.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
			return req.JSON &&
				req.MaxTokens == quizMaxTokens &&
				strings.Contains(req.System, "exactly 3 objects") &&
				strings.Contains(req.Messages[0].Content, "user: What is 2+2?\nassistant: It is 4.")
		})).Return(&llm.Response{Content: validQuizReply}, nil)

		quiz, err := NewTutorService(model).GenerateQuiz(ctx, "Math", conversation, 12)
		require.NoError(t, err)
		require.Len(t, quiz.MultipleChoice, 2)
		assert.Equal(t, "B", quiz.MultipleChoice[0].Correct)
		require.Len(t, quiz.Enumeration, 2)
		assert.Equal(t, "Water", quiz.Enumeration[1].Answer)
		model.AssertExpectations(t)
	})

	t.Run("missing conversation length", func(t *testing.T) {
		model := new(MockChatModel)
		_, err := NewTutorService(model).GenerateQuiz(ctx, "Math", conversation, 0)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "Missing topic, conversation, or conversation length.", domainErr.Message)
	})

	t.Run("unparseable reply", func(t *testing.T) {
		model := new(MockChatModel)
		model.On("Generate", mock.Anything, mock.Anything).Return(&llm.Response{Content: "Sure! Here is your quiz."}, nil)

		_, err := NewTutorService(model).GenerateQuiz(ctx, "Math", conversation, 8)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeQuizParse, domainErr.Code)
	})

	t.Run("model failure", func(t *testing.T) {
		model := new(MockChatModel)
		model.On("Generate", mock.Anything, mock.Anything).Return(nil, &llm.ErrRateLimit{})

		_, err := NewTutorService(model).GenerateQuiz(ctx, "Math", conversation, 8)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	})
}
