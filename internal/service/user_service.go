package service

import (
	"context"
	"fmt"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/repository"
	"onyx-tutor/internal/util"
	"onyx-tutor/internal/validation"

	"go.uber.org/zap"
)

// UserService serves the signed-in user's own documents.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	SaveQuizResult(ctx context.Context, result *domain.QuizResult) error
	ListQuizResults(ctx context.Context, userID string) ([]domain.QuizResult, error)
	GetQuizResult(ctx context.Context, userID, id string) (*domain.QuizResult, error)
}

type userServiceImpl struct {
	userRepo   repository.UserRepository
	resultRepo repository.QuizResultRepository
	validator  *validation.Validator
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository, resultRepo repository.QuizResultRepository) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		resultRepo: resultRepo,
		validator:  validation.NewValidator(),
	}
}

// GetUserProfile retrieves a user's profile information.
func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user profile", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("User %s not found", userID))
	}
	return &dto.UserResponse{ID: user.ID, Email: user.Email}, nil
}

// SaveQuizResult persists a completed quiz as submitted. The score is the
// client's and is only checked against the shape invariants.
func (s *userServiceImpl) SaveQuizResult(ctx context.Context, result *domain.QuizResult) error {
	if errs := s.validator.ValidateQuizResult(result); len(errs) > 0 {
		return errs
	}
	if err := s.resultRepo.CreateQuizResult(ctx, result); err != nil {
		return domain.NewInternalError("Failed to save quiz result", err)
	}
	logger.Get().Info("Quiz result saved",
		zap.String("userID", result.UserID),
		zap.String("resultID", result.ID),
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions))
	return nil
}

// ListQuizResults returns the user's results newest first.
func (s *userServiceImpl) ListQuizResults(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	results, err := s.resultRepo.ListQuizResultsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz results", err)
	}
	return results, nil
}

func (s *userServiceImpl) GetQuizResult(ctx context.Context, userID, id string) (*domain.QuizResult, error) {
	if !util.IsULID(id) {
		return nil, domain.NewQuizResultNotFoundError(id)
	}
	result, err := s.resultRepo.GetQuizResult(ctx, userID, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz result", err)
	}
	if result == nil {
		return nil, domain.NewQuizResultNotFoundError(id)
	}
	return result, nil
}
