package handler

import (
	"errors"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/middleware"
	"onyx-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const msgUnexpected = "An unexpected error occurred."

// TutorHandler serves the three tutor endpoints. Errors are always
// {"error": message} so the browser-style client can show them as is.
type TutorHandler struct {
	tutorService  service.TutorService
	lessonService service.LessonService
}

func NewTutorHandler(tutorService service.TutorService, lessonService service.LessonService) *TutorHandler {
	return &TutorHandler{tutorService: tutorService, lessonService: lessonService}
}

// SaveLesson godoc
// @Summary Save a lesson
// @Description Stores the lesson transcript under the signed-in user.
// @Tags tutor
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SaveLessonRequest true "Lesson"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /save-lesson [post]
func (h *TutorHandler) SaveLesson(c *fiber.Ctx) error {
	var req dto.SaveLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return tutorError(c, domain.NewInvalidInputError("Missing topic or conversation data"))
	}

	if _, err := h.lessonService.Save(c.UserContext(), middleware.UserID(c), req.Topic, req.Conversation); err != nil {
		return tutorError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true})
}

// AskAI godoc
// @Summary Ask the tutor
// @Description Sends the conversation so far and returns the tutor's next message.
// @Tags tutor
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.AskAIRequest true "Conversation"
// @Success 200 {object} dto.AskAIResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /ask-ai [post]
func (h *TutorHandler) AskAI(c *fiber.Ctx) error {
	var req dto.AskAIRequest
	if err := c.BodyParser(&req); err != nil {
		return tutorError(c, domain.NewInvalidInputError("Missing messages or topic"))
	}

	reply, err := h.tutorService.Ask(c.UserContext(), req.Topic, req.Messages)
	if err != nil {
		return tutorError(c, err)
	}
	return c.JSON(dto.AskAIResponse{Response: reply})
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Builds a multiple-choice and enumeration quiz from a lesson transcript.
// @Tags tutor
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.GenerateQuizRequest true "Transcript"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /generate-quiz [post]
func (h *TutorHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return tutorError(c, domain.NewInvalidInputError("Missing topic, conversation, or conversation length."))
	}

	quiz, err := h.tutorService.GenerateQuiz(c.UserContext(), req.Topic, req.Conversation, req.ConversationLength)
	if err != nil {
		return tutorError(c, err)
	}
	return c.JSON(dto.GenerateQuizResponse{QuizContent: *quiz})
}

func tutorError(c *fiber.Ctx, err error) error {
	status := middleware.StatusForError(err)
	message := msgUnexpected

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	} else {
		logger.Get().Error("Unexpected tutor endpoint error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}
