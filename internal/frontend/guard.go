package frontend

import (
	"context"
	"strings"
	"sync"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

// ActionKind is what the guard does for one auth state change.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionRedirect
	ActionInit
)

// Action is the single outcome of Decide.
type Action struct {
	Kind   ActionKind
	Target string
}

var authOnlyPaths = map[string]bool{
	PathLanding:  true,
	PathLogin:    true,
	PathRegister: true,
}

var protectedPaths = map[string]bool{
	PathHome:      true,
	PathDashboard: true,
	PathLearn:     true,
	PathQuiz:      true,
}

// IsProtected reports whether path requires a signed-in user.
func IsProtected(path string) bool {
	return protectedPaths[path] || strings.HasPrefix(path, PathReview)
}

// Decide picks the redirect or initializer for user on path.
func Decide(user *domain.User, path string) Action {
	if user != nil && authOnlyPaths[path] {
		return Action{Kind: ActionRedirect, Target: PathHome}
	}
	if user == nil && IsProtected(path) {
		return Action{Kind: ActionRedirect, Target: PathLogin}
	}
	return Action{Kind: ActionInit, Target: path}
}

// Initializer sets up a page for user. user is nil on public pages.
type Initializer func(ctx context.Context, user *domain.User)

// HeaderView is the navigation header shown to signed-in users.
type HeaderView interface {
	ShowSignedIn(email string)
}

type pageEntry struct {
	once sync.Once
	init Initializer
}

// Guard is built once per page load. It subscribes to auth state and, on
// every change, performs exactly one redirect or one initializer call.
// Each initializer runs at most once per load.
type Guard struct {
	auth   AuthProvider
	nav    Navigator
	header HeaderView
	path   string

	mu    sync.Mutex
	pages map[string]*pageEntry
}

func NewGuard(auth AuthProvider, nav Navigator, header HeaderView, path string) *Guard {
	return &Guard{
		auth:   auth,
		nav:    nav,
		header: header,
		path:   path,
		pages:  make(map[string]*pageEntry),
	}
}

// Register binds an initializer to a path. A path ending in "/" matches
// every path below it, so "/review/" serves "/review/{id}".
func (g *Guard) Register(path string, init Initializer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pages[path] = &pageEntry{init: init}
}

func (g *Guard) lookup(path string) *pageEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.pages[path]; ok {
		return p
	}
	for prefix, p := range g.pages {
		if strings.HasSuffix(prefix, "/") && prefix != "/" && strings.HasPrefix(path, prefix) {
			return p
		}
	}
	return nil
}

// Start subscribes to auth state changes and returns the unsubscribe func.
func (g *Guard) Start(ctx context.Context) (stop func()) {
	return g.auth.OnAuthStateChanged(func(user *domain.User) {
		g.handle(ctx, user)
	})
}

func (g *Guard) handle(ctx context.Context, user *domain.User) {
	action := Decide(user, g.path)
	switch action.Kind {
	case ActionRedirect:
		logger.Get().Debug("Guard redirect", zap.String("from", g.path), zap.String("to", action.Target))
		g.nav.Navigate(action.Target)
	case ActionInit:
		if user != nil && g.header != nil {
			g.header.ShowSignedIn(user.Email)
		}
		if page := g.lookup(g.path); page != nil {
			page.once.Do(func() { page.init(ctx, user) })
		}
	}
}

// SignOut is wired to the header's sign-out control. The resulting auth
// state change redirects away from protected pages.
func (g *Guard) SignOut(ctx context.Context) error {
	return g.auth.SignOut(ctx)
}

// HomeView shows the home page greeting.
type HomeView interface {
	ShowWelcome(message string)
}

// HomeInitializer greets the signed-in user.
func HomeInitializer(view HomeView) Initializer {
	return func(ctx context.Context, user *domain.User) {
		if user == nil {
			return
		}
		view.ShowWelcome("Welcome, " + user.Email + "!")
	}
}
