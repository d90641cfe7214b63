package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"onyx-tutor/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "mistralai/Mixtral-8x7B-Instruct-v0.1", resolveModel("mixtral", openaiModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "custom/model", resolveModel("custom/model", anthropicModels))
}

func TestBuildOpenAIMessages(t *testing.T) {
	msgs := buildOpenAIMessages(Request{
		System: "You are Onyx",
		Messages: []Message{
			{Role: RoleUser, Content: "Photosynthesis"},
			{Role: RoleAssistant, Content: "Let's begin."},
		},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
}

func TestBuildOllamaAndGeminiMessages(t *testing.T) {
	req := Request{Messages: []Message{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}}

	ollamaMsgs := buildOllamaMessages(req)
	require.Len(t, ollamaMsgs, 2, "no system message when System is empty")
	assert.Equal(t, llms.ChatMessageTypeHuman, ollamaMsgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, ollamaMsgs[1].Role)

	contents := buildGeminiContents(req.Messages)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "hello", contents[1].Parts[0].Text)

	anthropicMsgs := buildAnthropicMessages(req.Messages)
	require.Len(t, anthropicMsgs, 2)
}

func TestOpenAIModel_Generate(t *testing.T) {
	var got openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "mistralai/Mixtral-8x7B-Instruct-v0.1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Plants make food from light."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
		}`))
	}))
	defer server.Close()

	model, err := NewOpenAIModel("test-key", server.URL, "mixtral")
	require.NoError(t, err)

	resp, err := model.Generate(context.Background(), Request{
		System:    "You are Onyx",
		Messages:  []Message{{Role: RoleUser, Content: "Photosynthesis"}},
		MaxTokens: 300,
		JSON:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Plants make food from light.", resp.Content)
	assert.Equal(t, 12, resp.Usage.InputTokens)

	assert.Equal(t, "mistralai/Mixtral-8x7B-Instruct-v0.1", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
}

func TestOpenAIModel_Errors(t *testing.T) {
	status := http.StatusTooManyRequests
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream said no", "type": "server_error"}}`))
	}))
	defer server.Close()

	model, err := NewOpenAIModel("k", server.URL, "gpt-4o-mini")
	require.NoError(t, err)

	_, err = model.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var rateErr *ErrRateLimit
	assert.True(t, errors.As(err, &rateErr))

	status = http.StatusInternalServerError
	_, err = model.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var unavailable *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))
}

func TestNewChatModel(t *testing.T) {
	ctx := context.Background()

	_, err := NewChatModel(ctx, config.LLMConfig{Provider: "carrier-pigeon"})
	assert.EqualError(t, err, `unknown LLM provider: "carrier-pigeon"`)

	_, err = NewChatModel(ctx, config.LLMConfig{Provider: "openai", Model: "mixtral"})
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewChatModel(ctx, config.LLMConfig{Provider: "anthropic"})
	assert.ErrorContains(t, err, "anthropic API key is required")

	m, err := NewChatModel(ctx, config.LLMConfig{Provider: "together", Model: "mixtral", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "mistralai/Mixtral-8x7B-Instruct-v0.1", m.ModelID())
}

type stubModel struct {
	resp *Response
	err  error
}

func (s *stubModel) Generate(context.Context, Request) (*Response, error) { return s.resp, s.err }
func (s *stubModel) ModelID() string                                      { return "stub" }

func TestWithLogging(t *testing.T) {
	ok := WithLogging(&stubModel{resp: &Response{Content: "hi"}}, "stub")
	resp, err := ok.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
	assert.Equal(t, "stub", ok.ModelID())

	failing := WithLogging(&stubModel{err: &ErrProviderUnavailable{}}, "stub")
	resp, err = failing.Generate(context.Background(), Request{})
	assert.Nil(t, resp)
	assert.EqualError(t, err, "LLM provider unavailable")
}
