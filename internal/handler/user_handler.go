package handler

import (
	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/middleware"
	"onyx-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves the signed-in user's profile and documents.
type UserHandler struct {
	userService   service.UserService
	lessonService service.LessonService
}

func NewUserHandler(userService service.UserService, lessonService service.LessonService) *UserHandler {
	return &UserHandler{userService: userService, lessonService: lessonService}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := h.userService.GetUserProfile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// GetLessonCount counts the user's saved lessons.
// @Summary Count my lessons
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.LessonCountResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /users/me/lessons/count [get]
func (h *UserHandler) GetLessonCount(c *fiber.Ctx) error {
	count, err := h.lessonService.Count(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.LessonCountResponse{Count: count})
}

// ListQuizResults lists the user's quiz results.
// @Summary List my quiz results
// @Description Newest first.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizResultsResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /users/me/quiz-results [get]
func (h *UserHandler) ListQuizResults(c *fiber.Ctx) error {
	results, err := h.userService.ListQuizResults(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	resp := dto.QuizResultsResponse{Results: make([]dto.QuizResultResponse, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, dto.NewQuizResultResponse(r))
	}
	return c.JSON(resp)
}

// SaveQuizResult stores a completed quiz.
// @Summary Save a quiz result
// @Description The date and id are assigned by the server. The score is stored as submitted.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.QuizResultRequest true "Completed quiz"
// @Success 201 {object} dto.QuizResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/me/quiz-results [post]
func (h *UserHandler) SaveQuizResult(c *fiber.Ctx) error {
	result, ok := c.Locals(middleware.ValidatedQuizResultKey).(*domain.QuizResult)
	if !ok {
		var req dto.QuizResultRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		result = req.ToDomain(middleware.UserID(c))
	}

	if err := h.userService.SaveQuizResult(c.UserContext(), result); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResultResponse(*result))
}

// GetQuizResult fetches one of the user's quiz results for review.
// @Summary Get a quiz result
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz result id"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz result not found."
// @Router /users/me/quiz-results/{id} [get]
func (h *UserHandler) GetQuizResult(c *fiber.Ctx) error {
	id := c.Params("id")
	result, err := h.userService.GetQuizResult(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		logger.Get().Debug("Quiz result lookup failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return c.JSON(dto.NewQuizResultResponse(*result))
}
