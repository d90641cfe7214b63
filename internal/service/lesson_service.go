package service

import (
	"context"
	"strings"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/repository"

	"go.uber.org/zap"
)

// LessonService stores lesson transcripts under their owner.
type LessonService interface {
	Save(ctx context.Context, userID, topic string, conversation []domain.ConversationTurn) (*domain.Lesson, error)
	Count(ctx context.Context, userID string) (int, error)
}

type lessonService struct {
	lessonRepo repository.LessonRepository
}

func NewLessonService(lessonRepo repository.LessonRepository) LessonService {
	return &lessonService{lessonRepo: lessonRepo}
}

func (s *lessonService) Save(ctx context.Context, userID, topic string, conversation []domain.ConversationTurn) (*domain.Lesson, error) {
	if strings.TrimSpace(topic) == "" || len(conversation) == 0 {
		return nil, domain.NewInvalidInputError("Missing topic or conversation data")
	}

	lesson := &domain.Lesson{UserID: userID, Topic: topic, Conversation: conversation}
	if err := s.lessonRepo.CreateLesson(ctx, lesson); err != nil {
		logger.Get().Error("Failed to save lesson", zap.String("userID", userID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to save lesson", err)
	}

	logger.Get().Info("Lesson saved",
		zap.String("userID", userID),
		zap.String("lessonID", lesson.ID),
		zap.Int("turns", len(conversation)))
	return lesson, nil
}

func (s *lessonService) Count(ctx context.Context, userID string) (int, error) {
	count, err := s.lessonRepo.CountLessonsByUserID(ctx, userID)
	if err != nil {
		return 0, domain.NewInternalError("Failed to count lessons", err)
	}
	return count, nil
}
