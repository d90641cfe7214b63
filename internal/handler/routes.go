package handler

import (
	"onyx-tutor/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Auth  *AuthHandler
	User  *UserHandler
	Tutor *TutorHandler
}

// RegisterRoutes mounts the tutor endpoints at the root and the auth and
// document store endpoints under /api.
func RegisterRoutes(app *fiber.App, h Handlers, tokens middleware.TokenValidator) {
	protected := middleware.Protected(tokens)
	validate := middleware.NewValidationMiddleware()

	app.Post("/save-lesson", protected, h.Tutor.SaveLesson)
	app.Post("/ask-ai", protected, h.Tutor.AskAI)
	app.Post("/generate-quiz", protected, h.Tutor.GenerateQuiz)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/logout", protected, h.Auth.Logout)
	auth.Get("/google/login", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)

	me := api.Group("/users/me", protected)
	me.Get("/", h.User.GetMyProfile)
	me.Get("/lessons/count", h.User.GetLessonCount)
	me.Get("/quiz-results", h.User.ListQuizResults)
	me.Post("/quiz-results", validate.ValidateQuizResult(), h.User.SaveQuizResult)
	me.Get("/quiz-results/:id", h.User.GetQuizResult)
}
