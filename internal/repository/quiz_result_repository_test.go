package repository

import (
	"context"
	"testing"
	"time"

	"onyx-tutor/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quizResultRowColumns = []string{"ID", "USER_ID", "TOPIC", "SCORE", "TOTAL_QUESTIONS", "QUESTIONS", "USER_ANSWERS", "COMPLETED_AT"}

const storedQuestions = `[{"type":"multiple_choice","question":"2+2?","choices":["3","4"],"correct":"B"},{"type":"enumeration","question":"Primary colour?","answer":"Red"}]`

func TestSQLXQuizResultRepository_CreateQuizResult(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuizResultRepository(db)

	result := &domain.QuizResult{
		UserID:         "U1",
		Topic:          "Math",
		Score:          1,
		TotalQuestions: 2,
		Questions: []domain.QuizQuestion{
			{Type: domain.QuestionMultipleChoice, Question: "2+2?", Choices: []string{"3", "4"}, Correct: "B"},
			{Type: domain.QuestionEnumeration, Question: "Primary colour?", Answer: "Red"},
		},
		UserAnswers: []string{"B", "blue"},
	}

	mock.ExpectExec(`INSERT INTO quiz_results`).
		WithArgs(sqlmock.AnyArg(), "U1", "Math", 1, 2, storedQuestions, `["B","blue"]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateQuizResult(context.Background(), result))
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.Date.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuizResultRepository_List(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuizResultRepository(db)
	newer := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	rows := sqlmock.NewRows(quizResultRowColumns).
		AddRow("R2", "U1", "Math", 2, 2, storedQuestions, `["B","red"]`, newer).
		AddRow("R1", "U1", "Math", 0, 2, storedQuestions, `["A",""]`, older)
	mock.ExpectQuery(`SELECT .* FROM quiz_results WHERE USER_ID = :1 ORDER BY COMPLETED_AT DESC`).
		WithArgs("U1").
		WillReturnRows(rows)

	results, err := repo.ListQuizResultsByUserID(context.Background(), "U1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "R2", results[0].ID)
	assert.Equal(t, newer, results[0].Date)
	require.Len(t, results[0].Questions, 2)
	assert.Equal(t, "4", results[0].Questions[0].Choices[1])
	assert.Equal(t, []string{"A", ""}, results[1].UserAnswers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuizResultRepository_Get(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuizResultRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(quizResultRowColumns).
			AddRow("R1", "U1", "Math", 1, 2, storedQuestions, `["B","blue"]`, time.Now())
		mock.ExpectQuery(`SELECT .* FROM quiz_results WHERE ID = :1 AND USER_ID = :2`).
			WithArgs("R1", "U1").
			WillReturnRows(rows)

		result, err := repo.GetQuizResult(ctx, "U1", "R1")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, "Red", result.Questions[1].Answer)
	})

	t.Run("other user's result is not visible", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM quiz_results WHERE ID = :1 AND USER_ID = :2`).
			WithArgs("R1", "U2").
			WillReturnRows(sqlmock.NewRows(quizResultRowColumns))

		result, err := repo.GetQuizResult(ctx, "U2", "R1")
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
