package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/repository/models"
	"onyx-tutor/internal/util"
)

// QuizResultRepository stores completed quizzes. Results are append-only.
type QuizResultRepository interface {
	CreateQuizResult(ctx context.Context, result *domain.QuizResult) error
	// ListQuizResultsByUserID returns the user's results newest first.
	ListQuizResultsByUserID(ctx context.Context, userID string) ([]domain.QuizResult, error)
	// GetQuizResult returns nil, nil when the user owns no result with id.
	GetQuizResult(ctx context.Context, userID, id string) (*domain.QuizResult, error)
}

type sqlxQuizResultRepository struct {
	db DBTX
}

func NewSQLXQuizResultRepository(db DBTX) QuizResultRepository {
	return &sqlxQuizResultRepository{db: db}
}

const quizResultColumns = `ID, USER_ID, TOPIC, SCORE, TOTAL_QUESTIONS, QUESTIONS, USER_ANSWERS, COMPLETED_AT`

func toDomainQuizResult(m *models.QuizResult) domain.QuizResult {
	return domain.QuizResult{
		ID:             m.ID,
		UserID:         m.UserID,
		Topic:          m.Topic,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		Date:           m.CompletedAt,
		Questions:      []domain.QuizQuestion(m.Questions),
		UserAnswers:    []string(m.UserAnswers),
	}
}

func fromDomainQuizResult(r *domain.QuizResult) *models.QuizResult {
	return &models.QuizResult{
		ID:             r.ID,
		UserID:         r.UserID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Questions:      models.JSONList[domain.QuizQuestion](r.Questions),
		UserAnswers:    models.JSONList[string](r.UserAnswers),
		CompletedAt:    r.Date,
	}
}

// CreateQuizResult assigns the id and the server timestamp, then inserts.
func (r *sqlxQuizResultRepository) CreateQuizResult(ctx context.Context, result *domain.QuizResult) error {
	if result.ID == "" {
		result.ID = util.NewULID()
	}
	result.Date = time.Now().UTC()
	m := fromDomainQuizResult(result)

	questions, err := m.Questions.Value()
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	answers, err := m.UserAnswers.Value()
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `INSERT INTO quiz_results (` + quizResultColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.UserID, m.Topic, m.Score, m.TotalQuestions, questions, answers, m.CompletedAt); err != nil {
		return fmt.Errorf("failed to create quiz result: %w", err)
	}
	return nil
}

func (r *sqlxQuizResultRepository) ListQuizResultsByUserID(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	var rows []models.QuizResult
	query := `SELECT ` + quizResultColumns + ` FROM quiz_results WHERE USER_ID = :1 ORDER BY COMPLETED_AT DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}

	results := make([]domain.QuizResult, len(rows))
	for i := range rows {
		results[i] = toDomainQuizResult(&rows[i])
	}
	return results, nil
}

func (r *sqlxQuizResultRepository) GetQuizResult(ctx context.Context, userID, id string) (*domain.QuizResult, error) {
	var m models.QuizResult
	query := `SELECT ` + quizResultColumns + ` FROM quiz_results WHERE ID = :1 AND USER_ID = :2`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz result: %w", err)
	}
	result := toDomainQuizResult(&m)
	return &result, nil
}
