package domain

import (
	"time"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message of a lesson transcript.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Lesson is a saved chat transcript. It is written once and never updated.
type Lesson struct {
	ID           string
	UserID       string
	Topic        string
	Conversation []ConversationTurn
	Date         time.Time
}

// QuestionType tags a QuizQuestion variant.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionEnumeration    QuestionType = "enumeration"
)

// QuizQuestion is either a multiple-choice question (Choices + Correct
// letter) or an enumeration question (Answer).
type QuizQuestion struct {
	Type     QuestionType `json:"type,omitempty"`
	Question string       `json:"question"`
	Choices  []string     `json:"choices,omitempty"`
	Correct  string       `json:"correct,omitempty"`
	Answer   string       `json:"answer,omitempty"`
}

// IsMultipleChoice reports whether q is the multiple-choice variant.
func (q QuizQuestion) IsMultipleChoice() bool {
	return q.Type == QuestionMultipleChoice
}

// CorrectIndex is the zero-based position of the correct choice, or -1.
func (q QuizQuestion) CorrectIndex() int {
	return ChoiceIndex(q.Correct)
}

// QuizContent is the generated quiz as returned by /generate-quiz.
type QuizContent struct {
	MultipleChoice []QuizQuestion `json:"multiple_choice"`
	Enumeration    []QuizQuestion `json:"enumeration"`
}

// Questions tags every question with its kind and returns all
// multiple-choice questions followed by all enumeration questions.
func (c QuizContent) Questions() []QuizQuestion {
	out := make([]QuizQuestion, 0, len(c.MultipleChoice)+len(c.Enumeration))
	for _, q := range c.MultipleChoice {
		q.Type = QuestionMultipleChoice
		out = append(out, q)
	}
	for _, q := range c.Enumeration {
		q.Type = QuestionEnumeration
		out = append(out, q)
	}
	return out
}

// QuizResult is one completed quiz attempt, self-contained for review.
type QuizResult struct {
	ID             string         `json:"id,omitempty"`
	UserID         string         `json:"-"`
	Topic          string         `json:"topic"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Date           time.Time      `json:"date"`
	Questions      []QuizQuestion `json:"questions"`
	UserAnswers    []string       `json:"userAnswers"`
}

// Reviewable reports whether the result carries questions to review.
func (r QuizResult) Reviewable() bool {
	return len(r.Questions) > 0
}
