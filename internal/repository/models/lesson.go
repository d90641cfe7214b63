package models

import (
	"time"

	"onyx-tutor/internal/domain"
)

// Lesson is a row of the lessons table.
type Lesson struct {
	ID           string                            `db:"ID"`
	UserID       string                            `db:"USER_ID"`
	Topic        string                            `db:"TOPIC"`
	Conversation JSONList[domain.ConversationTurn] `db:"CONVERSATION"`
	CreatedAt    time.Time                         `db:"CREATED_AT"`
}

// QuizResult is a row of the quiz_results table.
type QuizResult struct {
	ID             string                        `db:"ID"`
	UserID         string                        `db:"USER_ID"`
	Topic          string                        `db:"TOPIC"`
	Score          int                           `db:"SCORE"`
	TotalQuestions int                           `db:"TOTAL_QUESTIONS"`
	Questions      JSONList[domain.QuizQuestion] `db:"QUESTIONS"`
	UserAnswers    JSONList[string]              `db:"USER_ANSWERS"`
	CompletedAt    time.Time                     `db:"COMPLETED_AT"`
}
