package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/frontend"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

const helpText = "Pages: /home /learn /dashboard   /go <path> opens any page   /logout   /quit"

// page is one route of the console.
type page struct {
	title    string
	init     frontend.Initializer
	prompt   func() string
	commands map[string]func(ctx context.Context)
	// handle receives every line that is not a command.
	handle func(ctx context.Context, line string)
}

// App routes between pages. Each navigation is a fresh page load with its
// own session guard, like a browser.
type App struct {
	in      *bufio.Scanner
	screen  *Screen
	auth    frontend.AuthProvider
	store   frontend.DocumentStore
	tutor   frontend.TutorAPI
	session frontend.SessionStorage

	next string
	quit bool
}

func NewApp(in io.Reader, screen *Screen, auth frontend.AuthProvider, store frontend.DocumentStore, tutor frontend.TutorAPI) *App {
	return &App{
		in:      bufio.NewScanner(in),
		screen:  screen,
		auth:    auth,
		store:   store,
		tutor:   tutor,
		session: frontend.NewMemoryStorage(),
	}
}

// Navigate schedules the next page load.
func (a *App) Navigate(path string) {
	a.next = path
}

// Run loads path and follows navigation until the user quits or input
// ends.
func (a *App) Run(ctx context.Context, path string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.next = ""
		logger.Get().Debug("Loading page", zap.String("path", path))
		a.load(ctx, path)
		if a.quit || a.next == "" {
			return nil
		}
		path = a.next
	}
}

func (a *App) load(ctx context.Context, path string) {
	p := a.page(path)
	guard := frontend.NewGuard(a.auth, a, a.screen, path)

	pattern := path
	if strings.HasPrefix(path, frontend.PathReview) {
		pattern = frontend.PathReview
	}
	ready := false
	guard.Register(pattern, func(ctx context.Context, user *domain.User) {
		a.screen.Title(p.title)
		ready = true
		if p.init != nil {
			p.init(ctx, user)
		}
	})

	stop := guard.Start(ctx)
	defer stop()

	for ready && a.next == "" && !a.quit {
		a.screen.Prompt(p.prompt())
		if !a.in.Scan() {
			a.quit = true
			return
		}
		line := strings.TrimSpace(a.in.Text())
		if cmd, ok := p.commands[line]; ok {
			cmd(ctx)
			continue
		}
		if a.global(ctx, guard, line) {
			continue
		}
		if p.handle != nil {
			p.handle(ctx, line)
		} else if line != "" {
			a.screen.Hint(helpText)
		}
	}
}

// global handles the commands available on every page.
func (a *App) global(ctx context.Context, guard *frontend.Guard, line string) bool {
	switch {
	case line == "/quit" || line == "/exit":
		a.quit = true
	case line == "/help":
		a.screen.Hint(helpText)
	case line == "/logout":
		if err := guard.SignOut(ctx); err != nil {
			a.screen.Alert(err.Error())
		}
	case strings.HasPrefix(line, "/go "):
		a.Navigate(strings.TrimSpace(strings.TrimPrefix(line, "/go ")))
	case line == frontend.PathLanding || line == frontend.PathLogin || line == frontend.PathRegister ||
		line == frontend.PathHome || line == frontend.PathLearn || line == frontend.PathDashboard:
		a.Navigate(line)
	default:
		return false
	}
	return true
}

func fixedPrompt(text string) func() string {
	return func() string { return text }
}

func (a *App) page(path string) page {
	switch {
	case path == frontend.PathLanding:
		return page{
			title:  "Onyx, your AI tutor",
			prompt: fixedPrompt("> "),
			init: func(ctx context.Context, user *domain.User) {
				a.screen.Hint("Type /login to sign in or /register to create an account.")
			},
		}
	case path == frontend.PathLogin:
		form := frontend.NewLoginForm(a.auth, a, a.screen)
		return page{
			title:  "Sign in",
			prompt: fixedPrompt("Email: "),
			init: func(ctx context.Context, user *domain.User) {
				a.screen.Hint("No account yet? Type /register.")
			},
			handle: func(ctx context.Context, email string) {
				password, ok := a.readSecret("Password: ")
				if !ok {
					return
				}
				_ = form.Submit(ctx, email, password)
			},
		}
	case path == frontend.PathRegister:
		form := frontend.NewRegisterForm(a.auth, a, a.screen)
		return page{
			title:  "Create an account",
			prompt: fixedPrompt("Email: "),
			init: func(ctx context.Context, user *domain.User) {
				a.screen.Hint("Already registered? Type /login.")
			},
			handle: func(ctx context.Context, email string) {
				password, ok := a.readSecret("Password: ")
				if !ok {
					return
				}
				_ = form.Submit(ctx, email, password)
			},
		}
	case path == frontend.PathHome:
		return page{
			title:  "Home",
			prompt: fixedPrompt("> "),
			init: func(ctx context.Context, user *domain.User) {
				frontend.HomeInitializer(a.screen)(ctx, user)
				a.screen.Hint(helpText)
			},
		}
	case path == frontend.PathLearn:
		return a.learnPage()
	case path == frontend.PathQuiz:
		return a.quizPage()
	case path == frontend.PathDashboard:
		return a.dashboardPage()
	case strings.HasPrefix(path, frontend.PathReview):
		review := frontend.NewReviewPage(a.store, a, a.screen, path)
		return page{title: "Quiz review", prompt: fixedPrompt("> "), init: review.Init}
	default:
		return page{
			title:  "Page not found",
			prompt: fixedPrompt("> "),
			init: func(ctx context.Context, user *domain.User) {
				a.screen.Hint(path + " does not exist. " + helpText)
			},
		}
	}
}

func (a *App) learnPage() page {
	chat := frontend.NewChatPage(a.auth, a.tutor, a.session, a, a.screen, a.screen)
	return page{
		title:  "Learn",
		prompt: fixedPrompt("> "),
		init:   chat.Init,
		commands: map[string]func(ctx context.Context){
			"/new":  func(ctx context.Context) { chat.NewTopic() },
			"/quiz": func(ctx context.Context) { _ = chat.TakeQuiz(ctx) },
		},
		handle: func(ctx context.Context, line string) {
			err := chat.Submit(ctx, line)
			if err != nil && !errors.Is(err, frontend.ErrEmptyInput) {
				a.screen.Hint(err.Error())
			}
		},
	}
}

func (a *App) quizPage() page {
	quiz := frontend.NewQuizPage(a.auth, a.tutor, a.store, a.session, a, a.screen, a.screen)
	return page{
		title: "Quiz",
		prompt: func() string {
			if quiz.State() == frontend.QuizAnswering {
				return "Answer: "
			}
			return "> "
		},
		init: quiz.Init,
		handle: func(ctx context.Context, line string) {
			if quiz.State() != frontend.QuizAnswering {
				a.screen.Hint(helpText)
				return
			}
			_ = quiz.Advance(ctx, line)
		},
	}
}

// dashboardScreen remembers the rows it showed so "review N" can open one.
type dashboardScreen struct {
	*Screen
	rows []frontend.HistoryRow
}

func (d *dashboardScreen) ShowSummary(summary frontend.DashboardSummary) {
	d.rows = summary.Rows
	d.Screen.ShowSummary(summary)
}

func (a *App) dashboardPage() page {
	view := &dashboardScreen{Screen: a.screen}
	dashboard := frontend.NewDashboardPage(a.store, a, view)
	return page{
		title:  "Dashboard",
		prompt: fixedPrompt("> "),
		init:   dashboard.Init,
		handle: func(ctx context.Context, line string) {
			n, ok := strings.CutPrefix(line, "review ")
			if !ok {
				a.screen.Hint("Type review <#> to review a quiz. " + helpText)
				return
			}
			i, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil || i < 1 || i > len(view.rows) {
				a.screen.Hint("No quiz with that number.")
				return
			}
			row := view.rows[i-1]
			if !row.Reviewable {
				a.screen.Hint("That quiz has no review.")
				return
			}
			dashboard.OpenReview(row.ID)
		},
	}
}

// readSecret reads one line after prompt. Terminal echo is left on.
func (a *App) readSecret(prompt string) (string, bool) {
	a.screen.Prompt(prompt)
	if !a.in.Scan() {
		a.quit = true
		return "", false
	}
	return a.in.Text(), true
}
