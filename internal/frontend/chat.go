package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

var (
	// ErrBusy rejects a submission while a request is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrEmptyInput rejects blank input before any network call.
	ErrEmptyInput = errors.New("input is empty")
	// ErrConversationTooShort rejects a quiz request on a short lesson.
	ErrConversationTooShort = errors.New("conversation is too short for a quiz")
)

// SenderAI labels assistant messages in the chat log.
const SenderAI = "ai"

// MinTurnsForQuiz is the shortest transcript a quiz is generated from.
const MinTurnsForQuiz = 4

const (
	chatGreeting      = "What subject would you like to start a lesson on today?"
	topicPlaceholder  = "Enter a topic to start..."
	thinkingText      = "Thinking..."
	takeQuizLabel     = "Take Quiz!"
	savingLabel       = "Saving..."
	shortLessonNotice = "Please have a slightly longer conversation to generate a good quiz!"
)

// ChatView renders the lesson chat.
type ChatView interface {
	ClearLog()
	AppendMessage(sender, text string)
	ShowThinking(text string)
	HideThinking()
	SetPlaceholder(text string)
	SetSubmitEnabled(enabled bool)
	SetSessionControlsVisible(visible bool)
	SetTakeQuiz(enabled bool, label string)
}

// ChatState is the lesson chat state.
type ChatState int

const (
	AwaitingTopic ChatState = iota
	InConversation
)

// ChatPage drives one tutoring session.
type ChatPage struct {
	auth    AuthProvider
	tutor   TutorAPI
	session SessionStorage
	nav     Navigator
	alert   Alerter
	view    ChatView

	mu           sync.Mutex
	state        ChatState
	topic        string
	conversation []domain.ConversationTurn
	asking       bool
	saving       bool
	// generation counts Start calls; replies from an older one are dropped.
	generation   int
}

func NewChatPage(auth AuthProvider, tutor TutorAPI, session SessionStorage, nav Navigator, alert Alerter, view ChatView) *ChatPage {
	return &ChatPage{
		auth:    auth,
		tutor:   tutor,
		session: session,
		nav:     nav,
		alert:   alert,
		view:    view,
	}
}

// Init is the page initializer.
func (p *ChatPage) Init(ctx context.Context, user *domain.User) {
	p.Start()
}

// Start resets the page to AwaitingTopic.
func (p *ChatPage) Start() {
	p.mu.Lock()
	p.generation++
	p.state = AwaitingTopic
	p.topic = ""
	p.conversation = nil
	p.mu.Unlock()

	p.view.ClearLog()
	p.view.AppendMessage(SenderAI, chatGreeting)
	p.view.SetPlaceholder(topicPlaceholder)
	p.view.SetSessionControlsVisible(false)
	p.view.SetSubmitEnabled(true)
}

// NewTopic drops the current session unconditionally.
func (p *ChatPage) NewTopic() {
	p.Start()
}

func (p *ChatPage) State() ChatState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *ChatPage) Topic() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic
}

// Conversation returns a copy of the transcript.
func (p *ChatPage) Conversation() []domain.ConversationTurn {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ConversationTurn(nil), p.conversation...)
}

// Submit sends one user message. Only rejected submissions return an
// error; a failed request is rendered in the log instead.
func (p *ChatPage) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}

	p.mu.Lock()
	if p.asking {
		p.mu.Unlock()
		return ErrBusy
	}
	p.asking = true
	startsLesson := p.state == AwaitingTopic
	if startsLesson {
		p.state = InConversation
		p.topic = text
		p.conversation = nil
	}
	p.conversation = append(p.conversation, domain.ConversationTurn{Role: domain.RoleUser, Content: text})
	topic := p.topic
	generation := p.generation
	messages := append([]domain.ConversationTurn(nil), p.conversation...)
	p.mu.Unlock()

	if startsLesson {
		p.view.ClearLog()
		p.view.SetSessionControlsVisible(true)
		p.view.SetTakeQuiz(true, takeQuizLabel)
		p.view.SetPlaceholder("Ask a question about " + topic + "...")
	}
	p.view.SetSubmitEnabled(false)
	p.view.AppendMessage(domain.RoleUser, text)
	p.view.ShowThinking(thinkingText)

	reply, err := p.ask(ctx, topic, messages)

	p.view.HideThinking()
	if err != nil {
		logger.Get().Warn("Ask failed", zap.String("topic", topic), zap.Error(err))
	}

	// A new topic started while waiting discards the stale reply or error.
	p.mu.Lock()
	current := p.generation == generation
	if current && err == nil {
		p.conversation = append(p.conversation, domain.ConversationTurn{Role: domain.RoleAssistant, Content: reply})
	}
	p.mu.Unlock()
	switch {
	case !current:
	case err != nil:
		p.view.AppendMessage(SenderAI, "Sorry, an error occurred: "+err.Error())
	default:
		p.view.AppendMessage(SenderAI, reply)
	}

	p.mu.Lock()
	p.asking = false
	p.mu.Unlock()
	p.view.SetSubmitEnabled(true)
	return nil
}

func (p *ChatPage) ask(ctx context.Context, topic string, messages []domain.ConversationTurn) (string, error) {
	token, err := p.auth.IDToken(ctx, true)
	if err != nil {
		return "", err
	}
	return p.tutor.AskAI(ctx, token, topic, messages)
}

// TakeQuiz saves the lesson, stages it for the quiz page and navigates
// there. Failures are alerted and leave the session intact.
func (p *ChatPage) TakeQuiz(ctx context.Context) error {
	p.mu.Lock()
	if p.saving || p.asking {
		p.mu.Unlock()
		return ErrBusy
	}
	if p.topic == "" || len(p.conversation) < MinTurnsForQuiz {
		p.mu.Unlock()
		p.alert.Alert(shortLessonNotice)
		return ErrConversationTooShort
	}
	p.saving = true
	topic := p.topic
	conversation := append([]domain.ConversationTurn(nil), p.conversation...)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.saving = false
		p.mu.Unlock()
	}()

	p.view.SetTakeQuiz(false, savingLabel)

	if err := p.saveLesson(ctx, topic, conversation); err != nil {
		logger.Get().Error("Failed to save lesson", zap.String("topic", topic), zap.Error(err))
		p.alert.Alert("Could not save your lesson: " + err.Error())
		p.view.SetTakeQuiz(true, takeQuizLabel)
		return err
	}

	staged, err := json.Marshal(conversation)
	if err != nil {
		return err
	}
	p.session.Set(KeyConversationForQuiz, string(staged))
	p.session.Set(KeyTopicForQuiz, topic)
	p.session.Set(KeyConversationLengthForQuiz, strconv.Itoa(len(conversation)))
	p.nav.Navigate(PathQuiz)
	return nil
}

func (p *ChatPage) saveLesson(ctx context.Context, topic string, conversation []domain.ConversationTurn) error {
	token, err := p.auth.IDToken(ctx, true)
	if err != nil {
		return err
	}
	return p.tutor.SaveLesson(ctx, token, topic, conversation)
}
