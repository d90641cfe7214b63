// Package console renders the tutor client in a terminal and routes
// between its pages.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/frontend"

	"charm.land/lipgloss/v2"
)

// Screen writes every page view to one terminal.
type Screen struct {
	mu          sync.Mutex
	out         io.Writer
	placeholder string
}

func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

func (s *Screen) println(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = lipgloss.Fprintln(s.out, text)
}

// Title prints a page title.
func (s *Screen) Title(text string) {
	s.println(titleStyle.Render(text))
}

// Hint prints a dim usage line.
func (s *Screen) Hint(text string) {
	s.println(hintStyle.Render(text))
}

// Prompt prints an input prompt without a newline.
func (s *Screen) Prompt(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = lipgloss.Fprint(s.out, bodyStyle.Render(text))
}

func (s *Screen) Alert(message string) {
	s.println(alertStyle.Render("! " + message))
}

func (s *Screen) ShowSignedIn(email string) {
	s.println(headerStyle.Render(fmt.Sprintf("Signed in as %s   /logout to sign out", email)))
}

func (s *Screen) ShowWelcome(message string) {
	s.println(titleStyle.Render(message))
}

// Chat

func (s *Screen) ClearLog() {
	s.println(hintStyle.Render(strings.Repeat("─", 40)))
}

func (s *Screen) AppendMessage(sender, text string) {
	label := tutorStyle.Render("Onyx:")
	if sender == domain.RoleUser {
		label = userStyle.Render("You:")
	}
	s.println(label + " " + bodyStyle.Render(text))
}

func (s *Screen) ShowThinking(text string) {
	s.println(hintStyle.Render(text))
}

func (s *Screen) HideThinking() {}

func (s *Screen) SetPlaceholder(text string) {
	s.mu.Lock()
	s.placeholder = text
	s.mu.Unlock()
	s.Hint(text)
}

// Placeholder is the chat input hint.
func (s *Screen) Placeholder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholder
}

// SetSubmitEnabled is a no-op: input is read only between requests.
func (s *Screen) SetSubmitEnabled(enabled bool) {}

func (s *Screen) SetSessionControlsVisible(visible bool) {
	if visible {
		s.Hint("/new starts a new topic, /quiz takes a quiz on this lesson")
	}
}

func (s *Screen) SetTakeQuiz(enabled bool, label string) {
	if !enabled {
		s.Hint(label)
	}
}

// Quiz

func (s *Screen) ShowStatus(text string) {
	s.println(bodyStyle.Render(text))
}

func (s *Screen) ShowQuestion(prompt frontend.QuestionPrompt) {
	lines := []string{titleStyle.Render(prompt.Heading)}
	for _, choice := range prompt.Choices {
		lines = append(lines, "  "+bodyStyle.Render(choice))
	}
	if prompt.FreeText {
		lines = append(lines, hintStyle.Render(prompt.Placeholder))
	} else {
		lines = append(lines, hintStyle.Render("Type the letter of your answer."))
	}
	lines = append(lines, hintStyle.Render("Enter: "+prompt.AdvanceLabel))
	s.println(strings.Join(lines, "\n"))
}

func (s *Screen) ShowScore(text string) {
	s.println(cardStyle.Render(correctStyle.Render(text)))
}

// Dashboard

func (s *Screen) ShowSummary(summary frontend.DashboardSummary) {
	stats := fmt.Sprintf("Lessons: %d   Average score: %s", summary.LessonCount, summary.AverageScore)
	s.println(cardStyle.Render(stats))
	if summary.Notice != "" {
		s.println(hintStyle.Render(summary.Notice))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-3s  %-10s  %-28s  %-7s  %s\n", "#", "Date", "Topic", "Score", "Review")
	b.WriteString(strings.Repeat("─", 62))
	for i, row := range summary.Rows {
		action := notApplicable
		if row.Reviewable {
			action = "review " + fmt.Sprint(i+1)
		}
		fmt.Fprintf(&b, "\n%-3d  %-10s  %-28s  %-7s  %s", i+1, row.Date, truncate(row.Topic, 28), row.Score, action)
	}
	s.println(bodyStyle.Render(b.String()))
}

const notApplicable = "N/A"

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// ShowError serves both the dashboard and the review page.
func (s *Screen) ShowError(text string) {
	s.println(errorStyle.Render(text))
}

// Review

func (s *Screen) ShowReview(header string, items []frontend.ReviewItem) {
	s.println(titleStyle.Render(header))
	for _, item := range items {
		mark := correctStyle.Render("✓")
		if !item.Correct {
			mark = incorrectStyle.Render("✗")
		}
		lines := []string{
			mark + " " + bodyStyle.Render(item.Heading),
			"  Your Answer: " + item.UserAnswer,
		}
		if !item.Correct {
			lines = append(lines, "  "+correctStyle.Render("Correct Answer: "+item.CorrectAnswer))
		}
		s.println(strings.Join(lines, "\n"))
	}
}

var (
	_ frontend.Alerter       = (*Screen)(nil)
	_ frontend.HeaderView    = (*Screen)(nil)
	_ frontend.HomeView      = (*Screen)(nil)
	_ frontend.ChatView      = (*Screen)(nil)
	_ frontend.QuizView      = (*Screen)(nil)
	_ frontend.DashboardView = (*Screen)(nil)
	_ frontend.ReviewView    = (*Screen)(nil)
)
