package repository

import (
	"context"
	"fmt"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/repository/models"
	"onyx-tutor/internal/util"
)

// LessonRepository persists saved chat transcripts.
type LessonRepository interface {
	CreateLesson(ctx context.Context, lesson *domain.Lesson) error
	CountLessonsByUserID(ctx context.Context, userID string) (int, error)
}

type sqlxLessonRepository struct {
	db DBTX
}

func NewSQLXLessonRepository(db DBTX) LessonRepository {
	return &sqlxLessonRepository{db: db}
}

func fromDomainLesson(l *domain.Lesson) *models.Lesson {
	return &models.Lesson{
		ID:           l.ID,
		UserID:       l.UserID,
		Topic:        l.Topic,
		Conversation: models.JSONList[domain.ConversationTurn](l.Conversation),
		CreatedAt:    l.Date,
	}
}

// CreateLesson assigns the id and the server timestamp, then inserts.
func (r *sqlxLessonRepository) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = util.NewULID()
	}
	lesson.Date = time.Now().UTC()
	m := fromDomainLesson(lesson)

	conversation, err := m.Conversation.Value()
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	query := `INSERT INTO lessons (ID, USER_ID, TOPIC, CONVERSATION, CREATED_AT) VALUES (:1, :2, :3, :4, :5)`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.UserID, m.Topic, conversation, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

func (r *sqlxLessonRepository) CountLessonsByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM lessons WHERE USER_ID = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}
