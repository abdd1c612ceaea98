// Package openai adapts the OpenAI chat completions API to the
// analysis.Completer interface.
package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/phrazzld/sift-api/internal/analysis"
	"github.com/phrazzld/sift-api/internal/config"
)

// Client is a thin completion client over the OpenAI SDK.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// NewClient validates the LLM configuration and builds the client.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai api key cannot be empty", analysis.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", analysis.ErrInvalidConfig)
	}

	return &Client{
		client:      openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.With("component", "openai"),
	}, nil
}

// Complete sends one user prompt and returns the model's reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in openai response", analysis.ErrInvalidResponse)
	}

	content := response.Choices[0].Message.Content
	c.logger.Debug("completion received",
		"model", c.model,
		"prompt_length", len(prompt),
		"response_length", len(content))
	return content, nil
}
