// Package client talks to the tutor API over HTTP. It implements the
// auth provider, document store and tutor ports of the frontend package.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMessages are the texts used when an error body says nothing
// useful: unparsable for a body that is not JSON, missing for JSON
// without a message.
type errorMessages struct {
	unparsable func(status int) string
	missing    func(status int) string
}

func statusMessage(format string) func(int) string {
	return func(status int) string { return fmt.Sprintf(format, status) }
}

func fixedMessage(msg string) func(int) string {
	return func(int) string { return msg }
}

var serverErrorMessages = errorMessages{
	unparsable: statusMessage("Server error %d"),
	missing:    statusMessage("Server error %d"),
}

// decodeError turns an error response into an *APIError, or into a
// *domain.AuthError when the body carries an auth provider code.
func decodeError(status int, body []byte, fallback errorMessages) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &APIError{Status: status, Message: fallback.unparsable(status)}
	}
	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}
	if strings.HasPrefix(eb.Code, "auth/") {
		return domain.NewAuthError(eb.Code, msg)
	}
	if msg == "" {
		msg = fallback.missing(status)
	}
	return &APIError{Status: status, Code: eb.Code, Message: msg}
}

// Client sends JSON requests to one API base URL. It never retries and
// sets no timeout of its own; a context deadline bounds each request.
type Client struct {
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// send performs one request and returns the status and body.
func (c *Client) send(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}
	if deadline, ok := ctx.Deadline(); ok {
		a.Timeout(time.Until(deadline))
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, fmt.Errorf("failed to prepare %s %s: %w", method, path, err)
	}

	// Bytes releases the agent.
	status, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		logger.Get().Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	logger.Get().Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)
	return status, respBody, nil
}

// do sends body and decodes a 2xx answer into out. Other answers become
// errors with fallback messages.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any, fallback errorMessages) error {
	status, respBody, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return decodeError(status, respBody, fallback)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
