package frontend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

// ErrQuizResultNotFound is shown when the reviewed result does not exist.
var ErrQuizResultNotFound = errors.New("Quiz result not found.")

// ReviewItem is one reviewed question.
type ReviewItem struct {
	Heading    string
	UserAnswer string
	// CorrectAnswer is empty when the user answered correctly.
	CorrectAnswer string
	Correct       bool
}

// ReviewView renders a past attempt.
type ReviewView interface {
	ShowReview(header string, items []ReviewItem)
	ShowError(text string)
}

// ReviewPage shows one past quiz attempt question by question.
type ReviewPage struct {
	store DocumentStore
	nav   Navigator
	view  ReviewView
	path  string
}

func NewReviewPage(store DocumentStore, nav Navigator, view ReviewView, path string) *ReviewPage {
	return &ReviewPage{store: store, nav: nav, view: view, path: path}
}

// ResultID is the final segment of path.
func ResultID(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Init is the page initializer.
func (p *ReviewPage) Init(ctx context.Context, user *domain.User) {
	_ = p.Load(ctx)
}

func (p *ReviewPage) Load(ctx context.Context) error {
	id := ResultID(p.path)
	if id == "" {
		p.nav.Navigate(PathDashboard)
		return nil
	}

	result, err := p.store.GetQuizResult(ctx, id)
	if err == nil && result == nil {
		err = ErrQuizResultNotFound
	}
	if err != nil {
		logger.Get().Error("Error loading quiz review", zap.String("id", id), zap.Error(err))
		p.view.ShowError("Could not load quiz review: " + err.Error())
		return err
	}

	header := fmt.Sprintf("Review for: %s (Score: %d/%d)", result.Topic, result.Score, result.TotalQuestions)
	p.view.ShowReview(header, ReviewItems(result))
	return nil
}

// ReviewItems grades every stored question again with the quiz rules.
func ReviewItems(result *domain.QuizResult) []ReviewItem {
	items := make([]ReviewItem, 0, len(result.Questions))
	for i, q := range result.Questions {
		var answer string
		if i < len(result.UserAnswers) {
			answer = result.UserAnswers[i]
		}
		item := ReviewItem{
			Heading:    fmt.Sprintf("Q%d: %s", i+1, q.Question),
			UserAnswer: domain.FormatAnswer(q, answer),
			Correct:    domain.IsCorrect(q, answer),
		}
		if !item.Correct {
			item.CorrectAnswer = correctAnswer(q)
		}
		items = append(items, item)
	}
	return items
}

func correctAnswer(q domain.QuizQuestion) string {
	if q.IsMultipleChoice() {
		return domain.FormatAnswer(q, q.Correct)
	}
	return q.Answer
}
