package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaModel implements ChatModel against a local Ollama server.
type OllamaModel struct {
	llm   *ollama.LLM
	model string
}

func NewOllamaModel(serverURL, model string, timeout time.Duration) (*OllamaModel, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL is required")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	httpClient := &http.Client{Timeout: timeout}
	llm, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model), ollama.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &OllamaModel{llm: llm, model: model}, nil
}

func (m *OllamaModel) Generate(ctx context.Context, req Request) (*Response, error) {
	opts := []llms.CallOption{llms.WithMaxTokens(req.MaxTokens)}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := m.llm.GenerateContent(ctx, buildOllamaMessages(req), opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ErrProviderUnavailable{Err: fmt.Errorf("LLM request timed out: %w", err)}
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, &ErrEmptyResponse{Provider: "ollama"}
	}
	return &Response{Content: resp.Choices[0].Content, Model: m.model}, nil
}

func (m *OllamaModel) ModelID() string {
	return m.model
}

func buildOllamaMessages(req Request) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, msg := range req.Messages {
		role := llms.ChatMessageTypeHuman
		if msg.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	return messages
}
