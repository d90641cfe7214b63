package llm

import (
	"context"
	"fmt"
)

// ChatModel is the single abstraction the tutor service talks to.
type ChatModel interface {
	// Generate sends the conversation to the model and returns its reply.
	Generate(ctx context.Context, req Request) (*Response, error)
	// ModelID returns the model identifier the adapter is configured with.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	// System is the system prompt.
	System string
	// Messages is the conversation history, oldest first.
	Messages []Message
	// MaxTokens caps the length of the reply.
	MaxTokens int
	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
	// JSON asks the provider for a JSON object reply where it supports it.
	JSON bool
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's text output.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ErrProviderUnavailable indicates the provider is down, unreachable or
// rejected the call.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider answered 429.
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the provider returned no usable text.
type ErrEmptyResponse struct {
	Provider string
}

func (e *ErrEmptyResponse) Error() string {
	return fmt.Sprintf("no text content in %s response", e.Provider)
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
