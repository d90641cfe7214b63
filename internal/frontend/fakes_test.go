package frontend

import (
	"context"
	"sync"

	"onyx-tutor/internal/domain"
)

type fakeAuth struct {
	mu          sync.Mutex
	user        *domain.User
	listeners   map[int]func(*domain.User)
	nextID      int
	signInErr   error
	registerErr error
	token       string
	tokenErr    error
	forced      []bool
}

func newFakeAuth(user *domain.User) *fakeAuth {
	return &fakeAuth{user: user, listeners: make(map[int]func(*domain.User)), token: "id-token"}
}

func (a *fakeAuth) notify() {
	a.mu.Lock()
	user := a.user
	fns := make([]func(*domain.User), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(user)
	}
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	a.mu.Lock()
	a.user = &domain.User{ID: "U1", Email: email}
	user := a.user
	a.mu.Unlock()
	a.notify()
	return user, nil
}

func (a *fakeAuth) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if a.registerErr != nil {
		return nil, a.registerErr
	}
	return &domain.User{ID: "U2", Email: email}, nil
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()
	a.notify()
	return nil
}

func (a *fakeAuth) OnAuthStateChanged(fn func(*domain.User)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	user := a.user
	a.mu.Unlock()
	fn(user)
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *fakeAuth) CurrentUser() *domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *fakeAuth) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forced = append(a.forced, forceRefresh)
	return a.token, a.tokenErr
}

type fakeTutor struct {
	AskAIFunc        func(ctx context.Context, idToken, topic string, messages []domain.ConversationTurn) (string, error)
	SaveLessonFunc   func(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn) error
	GenerateQuizFunc func(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error)
	calls            int
}

func (t *fakeTutor) AskAI(ctx context.Context, idToken, topic string, messages []domain.ConversationTurn) (string, error) {
	t.calls++
	return t.AskAIFunc(ctx, idToken, topic, messages)
}

func (t *fakeTutor) SaveLesson(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn) error {
	t.calls++
	return t.SaveLessonFunc(ctx, idToken, topic, conversation)
}

func (t *fakeTutor) GenerateQuiz(ctx context.Context, idToken, topic string, conversation []domain.ConversationTurn, conversationLength int) (*domain.QuizContent, error) {
	t.calls++
	return t.GenerateQuizFunc(ctx, idToken, topic, conversation, conversationLength)
}

type fakeStore struct {
	CountLessonsFunc    func(ctx context.Context) (int, error)
	ListQuizResultsFunc func(ctx context.Context) ([]domain.QuizResult, error)
	SaveQuizResultFunc  func(ctx context.Context, result *domain.QuizResult) error
	GetQuizResultFunc   func(ctx context.Context, id string) (*domain.QuizResult, error)
}

func (s *fakeStore) CountLessons(ctx context.Context) (int, error) {
	return s.CountLessonsFunc(ctx)
}

func (s *fakeStore) ListQuizResults(ctx context.Context) ([]domain.QuizResult, error) {
	return s.ListQuizResultsFunc(ctx)
}

func (s *fakeStore) SaveQuizResult(ctx context.Context, result *domain.QuizResult) error {
	return s.SaveQuizResultFunc(ctx, result)
}

func (s *fakeStore) GetQuizResult(ctx context.Context, id string) (*domain.QuizResult, error) {
	return s.GetQuizResultFunc(ctx, id)
}

type recorder struct {
	mu       sync.Mutex
	paths    []string
	alerts   []string
	headers  []string
	welcomes []string
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

func (r *recorder) ShowSignedIn(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = append(r.headers, email)
}

func (r *recorder) ShowWelcome(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomes = append(r.welcomes, message)
}

type chatMessage struct {
	sender string
	text   string
}

type chatViewRecorder struct {
	mu            sync.Mutex
	log           []chatMessage
	thinking      bool
	placeholder   string
	submitEnabled bool
	controls      bool
	quizEnabled   bool
	quizLabel     string
}

func (v *chatViewRecorder) ClearLog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.log = nil
}

func (v *chatViewRecorder) AppendMessage(sender, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.log = append(v.log, chatMessage{sender: sender, text: text})
}

func (v *chatViewRecorder) ShowThinking(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.thinking = true
}

func (v *chatViewRecorder) HideThinking() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.thinking = false
}

func (v *chatViewRecorder) SetPlaceholder(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.placeholder = text
}

func (v *chatViewRecorder) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitEnabled = enabled
}

func (v *chatViewRecorder) SetSessionControlsVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.controls = visible
}

func (v *chatViewRecorder) SetTakeQuiz(enabled bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quizEnabled = enabled
	v.quizLabel = label
}

type quizViewRecorder struct {
	statuses []string
	prompts  []QuestionPrompt
	scores   []string
}

func (v *quizViewRecorder) ShowStatus(text string)            { v.statuses = append(v.statuses, text) }
func (v *quizViewRecorder) ShowQuestion(prompt QuestionPrompt) { v.prompts = append(v.prompts, prompt) }
func (v *quizViewRecorder) ShowScore(text string)             { v.scores = append(v.scores, text) }

type pageViewRecorder struct {
	summaries []DashboardSummary
	errors    []string
	header    string
	items     []ReviewItem
	reviewed  bool
}

func (v *pageViewRecorder) ShowSummary(summary DashboardSummary) {
	v.summaries = append(v.summaries, summary)
}

func (v *pageViewRecorder) ShowError(text string) { v.errors = append(v.errors, text) }

func (v *pageViewRecorder) ShowReview(header string, items []ReviewItem) {
	v.reviewed = true
	v.header = header
	v.items = items
}

var (
	_ AuthProvider  = (*fakeAuth)(nil)
	_ TutorAPI      = (*fakeTutor)(nil)
	_ DocumentStore = (*fakeStore)(nil)
	_ ChatView      = (*chatViewRecorder)(nil)
	_ QuizView      = (*quizViewRecorder)(nil)
	_ DashboardView = (*pageViewRecorder)(nil)
	_ ReviewView    = (*pageViewRecorder)(nil)
)
