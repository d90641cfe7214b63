package frontend

import (
	"context"
	"fmt"
	"math"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	noQuizzesNotice  = "You haven't completed any quizzes yet."
	noLessonsNotice  = "You haven't started any lessons yet. Go to the Learn tab!"
	dashboardFailure = "Could not load your dashboard data."
	notApplicable    = "N/A"
)

// HistoryRow is one quiz attempt in the dashboard history.
type HistoryRow struct {
	ID         string
	Date       string
	Topic      string
	Score      string
	Reviewable bool
}

// DashboardSummary is everything the dashboard shows after loading.
type DashboardSummary struct {
	LessonCount  int
	AverageScore string
	Rows         []HistoryRow
	// Notice replaces the history table when there is nothing to list.
	Notice string
}

// DashboardView renders the dashboard.
type DashboardView interface {
	ShowSummary(summary DashboardSummary)
	ShowError(text string)
}

// DashboardPage shows lesson and quiz statistics for the signed-in user.
type DashboardPage struct {
	store DocumentStore
	nav   Navigator
	view  DashboardView
}

func NewDashboardPage(store DocumentStore, nav Navigator, view DashboardView) *DashboardPage {
	return &DashboardPage{store: store, nav: nav, view: view}
}

// Init is the page initializer.
func (p *DashboardPage) Init(ctx context.Context, user *domain.User) {
	_ = p.Load(ctx)
}

// Load fetches the lesson count and quiz history together. Either failure
// fails the page.
func (p *DashboardPage) Load(ctx context.Context) error {
	var (
		lessonCount int
		results     []domain.QuizResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := p.store.CountLessons(gctx)
		if err != nil {
			return fmt.Errorf("count lessons: %w", err)
		}
		lessonCount = count
		return nil
	})
	g.Go(func() error {
		list, err := p.store.ListQuizResults(gctx)
		if err != nil {
			return fmt.Errorf("list quiz results: %w", err)
		}
		results = list
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Get().Error("Error loading dashboard", zap.Error(err))
		p.view.ShowError(dashboardFailure)
		return err
	}

	p.view.ShowSummary(Summarize(lessonCount, results))
	return nil
}

// OpenReview navigates to the review page of one result.
func (p *DashboardPage) OpenReview(id string) {
	p.nav.Navigate(PathReview + id)
}

// Summarize builds the dashboard from a lesson count and a newest-first
// quiz history.
func Summarize(lessonCount int, results []domain.QuizResult) DashboardSummary {
	summary := DashboardSummary{LessonCount: lessonCount, AverageScore: notApplicable}
	if len(results) == 0 {
		summary.Notice = noQuizzesNotice
		if lessonCount == 0 {
			summary.Notice = noLessonsNotice
		}
		return summary
	}

	var score, total int
	for _, r := range results {
		score += r.Score
		total += r.TotalQuestions
		summary.Rows = append(summary.Rows, HistoryRow{
			ID:         r.ID,
			Date:       formatDate(r.Date),
			Topic:      r.Topic,
			Score:      fmt.Sprintf("%d / %d", r.Score, r.TotalQuestions),
			Reviewable: r.Reviewable(),
		})
	}
	if total > 0 {
		summary.AverageScore = fmt.Sprintf("%d%%", int(math.Round(float64(score)/float64(total)*100)))
	}
	return summary
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("1/2/2006")
}
