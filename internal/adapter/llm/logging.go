package llm

import (
	"context"
	"time"

	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

type loggingModel struct {
	inner    ChatModel
	provider string
}

// WithLogging wraps a ChatModel so every call is logged with its latency.
func WithLogging(m ChatModel, provider string) ChatModel {
	return &loggingModel{inner: m, provider: provider}
}

func (l *loggingModel) Generate(ctx context.Context, req Request) (*Response, error) {
	log := logger.Get()
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("model", l.inner.ModelID()),
		zap.Int("messages", len(req.Messages)),
		zap.Int("max_tokens", req.MaxTokens),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		log.Error("LLM request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	log.Info("LLM request completed", append(fields,
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))...)
	log.Debug("LLM raw response", zap.String("content", resp.Content))
	return resp, nil
}

func (l *loggingModel) ModelID() string {
	return l.inner.ModelID()
}
