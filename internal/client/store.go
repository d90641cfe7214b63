package client

import (
	"context"
	"net/url"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// TokenSource hands out ID tokens for API calls.
type TokenSource interface {
	IDToken(ctx context.Context, forceRefresh bool) (string, error)
}

// Store is the signed-in user's document store under /api/users/me.
type Store struct {
	api    *Client
	tokens TokenSource
}

func NewStore(api *Client, tokens TokenSource) *Store {
	return &Store{api: api, tokens: tokens}
}

func (s *Store) call(ctx context.Context, method, path string, body, out any) error {
	token, err := s.tokens.IDToken(ctx, false)
	if err != nil {
		return err
	}
	return s.api.do(ctx, method, "/api/users/me"+path, token, body, out, serverErrorMessages)
}

func (s *Store) CountLessons(ctx context.Context) (int, error) {
	var resp dto.LessonCountResponse
	if err := s.call(ctx, fiber.MethodGet, "/lessons/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (s *Store) ListQuizResults(ctx context.Context) ([]domain.QuizResult, error) {
	var resp dto.QuizResultsResponse
	if err := s.call(ctx, fiber.MethodGet, "/quiz-results", nil, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.QuizResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, r.ToDomain())
	}
	return results, nil
}

// SaveQuizResult stores result and fills in the server-assigned id and date.
func (s *Store) SaveQuizResult(ctx context.Context, result *domain.QuizResult) error {
	var resp dto.QuizResultResponse
	if err := s.call(ctx, fiber.MethodPost, "/quiz-results", dto.NewQuizResultRequest(*result), &resp); err != nil {
		return err
	}
	result.ID = resp.ID
	result.Date = resp.Date
	return nil
}

func (s *Store) GetQuizResult(ctx context.Context, id string) (*domain.QuizResult, error) {
	var resp dto.QuizResultResponse
	err := s.call(ctx, fiber.MethodGet, "/quiz-results/"+url.PathEscape(id), nil, &resp)
	if StatusOf(err) == fiber.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result := resp.ToDomain()
	return &result, nil
}
