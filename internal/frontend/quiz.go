package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

// QuizState is the quiz runner state.
type QuizState int

const (
	QuizLoading QuizState = iota
	QuizAnswering
	QuizFinished
	QuizFailed
)

const (
	missingLessonNotice = "To get a quiz, you must first have a conversation with the AI tutor."
	answerPlaceholder   = "Type your answer here..."
	selectAnswerNotice  = "Please select an answer."
	typeAnswerNotice    = "Please type an answer."
	nextLabel           = "Next →"
	finishLabel         = "Finish Quiz"
)

var (
	// ErrNoStagedLesson means the quiz page was opened without a lesson.
	ErrNoStagedLesson = errors.New("no lesson staged for a quiz")
	// ErrMissingAnswer rejects an advance without an answer.
	ErrMissingAnswer = errors.New("answer is required")
	// ErrNotAnswering rejects an advance outside the Answering state.
	ErrNotAnswering = errors.New("quiz is not accepting answers")
)

// QuestionPrompt is one question as shown to the user.
type QuestionPrompt struct {
	Heading      string
	Choices      []string
	FreeText     bool
	Placeholder  string
	AdvanceLabel string
}

// QuizView renders the quiz runner.
type QuizView interface {
	ShowStatus(text string)
	ShowQuestion(prompt QuestionPrompt)
	ShowScore(text string)
}

// QuizPage runs one generated quiz from a staged lesson.
type QuizPage struct {
	auth    AuthProvider
	tutor   TutorAPI
	store   DocumentStore
	session SessionStorage
	nav     Navigator
	alert   Alerter
	view    QuizView

	mu        sync.Mutex
	state     QuizState
	topic     string
	questions []domain.QuizQuestion
	answers   []string
	index     int
	score     int
}

func NewQuizPage(auth AuthProvider, tutor TutorAPI, store DocumentStore, session SessionStorage, nav Navigator, alert Alerter, view QuizView) *QuizPage {
	return &QuizPage{
		auth:    auth,
		tutor:   tutor,
		store:   store,
		session: session,
		nav:     nav,
		alert:   alert,
		view:    view,
	}
}

type stagedLesson struct {
	topic        string
	conversation []domain.ConversationTurn
	length       int
}

// takeStagedLesson reads and removes the staged lesson. The keys are
// removed even when the lesson is incomplete.
func takeStagedLesson(s SessionStorage) (*stagedLesson, bool) {
	rawConversation, okConversation := s.Get(KeyConversationForQuiz)
	topic, okTopic := s.Get(KeyTopicForQuiz)
	rawLength, okLength := s.Get(KeyConversationLengthForQuiz)
	s.Remove(KeyConversationForQuiz)
	s.Remove(KeyTopicForQuiz)
	s.Remove(KeyConversationLengthForQuiz)

	if !okConversation || !okTopic || !okLength || rawConversation == "" || topic == "" || rawLength == "" {
		return nil, false
	}
	var conversation []domain.ConversationTurn
	if err := json.Unmarshal([]byte(rawConversation), &conversation); err != nil {
		return nil, false
	}
	length, err := strconv.Atoi(rawLength)
	if err != nil {
		return nil, false
	}
	return &stagedLesson{topic: topic, conversation: conversation, length: length}, true
}

// Init is the page initializer.
func (p *QuizPage) Init(ctx context.Context, user *domain.User) {
	_ = p.Load(ctx)
}

// Load consumes the staged lesson and generates the quiz. Without a staged
// lesson it alerts and sends the user back to /learn.
func (p *QuizPage) Load(ctx context.Context) error {
	lesson, ok := takeStagedLesson(p.session)
	if !ok {
		p.alert.Alert(missingLessonNotice)
		p.nav.Navigate(PathLearn)
		return ErrNoStagedLesson
	}

	p.mu.Lock()
	p.state = QuizLoading
	p.topic = lesson.topic
	p.mu.Unlock()
	p.view.ShowStatus(`Generating a personalized quiz on "` + lesson.topic + `"...`)

	content, err := p.generate(ctx, lesson)
	if err != nil {
		logger.Get().Error("Failed to generate quiz", zap.String("topic", lesson.topic), zap.Error(err))
		p.mu.Lock()
		p.state = QuizFailed
		p.mu.Unlock()
		p.view.ShowStatus("Failed to load quiz: " + err.Error())
		return err
	}

	p.mu.Lock()
	p.questions = content.Questions()
	p.answers = make([]string, len(p.questions))
	p.index = 0
	p.state = QuizAnswering
	p.mu.Unlock()

	p.present()
	if p.State() == QuizFinished {
		p.persist(ctx)
	}
	return nil
}

func (p *QuizPage) generate(ctx context.Context, lesson *stagedLesson) (*domain.QuizContent, error) {
	token, err := p.auth.IDToken(ctx, true)
	if err != nil {
		return nil, err
	}
	return p.tutor.GenerateQuiz(ctx, token, lesson.topic, lesson.conversation, lesson.length)
}

// present shows the current question, or finishes the quiz when every
// question is answered. Must not hold mu.
func (p *QuizPage) present() {
	p.mu.Lock()
	if p.index >= len(p.questions) {
		p.mu.Unlock()
		p.finish()
		return
	}
	prompt := promptFor(p.questions[p.index], p.index, len(p.questions))
	p.mu.Unlock()
	p.view.ShowQuestion(prompt)
}

func promptFor(q domain.QuizQuestion, i, total int) QuestionPrompt {
	prompt := QuestionPrompt{
		Heading:      fmt.Sprintf("Q%d: %s", i+1, q.Question),
		AdvanceLabel: nextLabel,
	}
	if i == total-1 {
		prompt.AdvanceLabel = finishLabel
	}
	if q.IsMultipleChoice() {
		for j, choice := range q.Choices {
			prompt.Choices = append(prompt.Choices, domain.ChoiceLabel(j)+". "+choice)
		}
	} else {
		prompt.FreeText = true
		prompt.Placeholder = answerPlaceholder
	}
	return prompt
}

// Advance records the answer to the current question and moves on. A
// multiple-choice answer is a choice letter; enumeration answers are
// trimmed text.
func (p *QuizPage) Advance(ctx context.Context, answer string) error {
	p.mu.Lock()
	if p.state != QuizAnswering {
		p.mu.Unlock()
		return ErrNotAnswering
	}
	q := p.questions[p.index]
	answer = strings.TrimSpace(answer)
	if q.IsMultipleChoice() {
		if _, ok := domain.ChoiceText(q, answer); !ok {
			p.mu.Unlock()
			p.alert.Alert(selectAnswerNotice)
			return ErrMissingAnswer
		}
		answer = strings.ToUpper(answer)
	} else if answer == "" {
		p.mu.Unlock()
		p.alert.Alert(typeAnswerNotice)
		return ErrMissingAnswer
	}
	p.answers[p.index] = answer
	p.index++
	finished := p.index == len(p.questions)
	if finished {
		p.state = QuizFinished
	}
	p.mu.Unlock()

	p.present()
	if finished {
		p.persist(ctx)
	}
	return nil
}

func (p *QuizPage) finish() {
	p.mu.Lock()
	p.state = QuizFinished
	p.score = domain.ScoreQuiz(p.questions, p.answers)
	text := fmt.Sprintf("Your Score: %d / %d", p.score, len(p.questions))
	p.mu.Unlock()
	p.view.ShowScore(text)
}

// persist saves the finished attempt once. Failures are only logged.
func (p *QuizPage) persist(ctx context.Context) {
	p.mu.Lock()
	result := &domain.QuizResult{
		Topic:          p.topic,
		Score:          p.score,
		TotalQuestions: len(p.questions),
		Questions:      append([]domain.QuizQuestion(nil), p.questions...),
		UserAnswers:    append([]string(nil), p.answers...),
	}
	p.mu.Unlock()

	if err := p.store.SaveQuizResult(ctx, result); err != nil {
		logger.Get().Error("Error saving quiz result", zap.String("topic", result.Topic), zap.Error(err))
	}
}

func (p *QuizPage) State() QuizState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the zero-based index of the question being answered.
func (p *QuizPage) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Answers returns a copy of the recorded answers.
func (p *QuizPage) Answers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.answers...)
}

func (p *QuizPage) Score() (score, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score, len(p.questions)
}
