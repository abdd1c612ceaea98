// Package gemini adapts the Google Gemini API to the analysis.Completer
// interface.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/phrazzld/sift-api/internal/analysis"
	"github.com/phrazzld/sift-api/internal/config"
)

// Client is a thin completion client over the Gemini SDK.
type Client struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// NewClient validates the LLM configuration and builds the client. The
// context is used only for client initialization.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key cannot be empty", analysis.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", analysis.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", analysis.ErrInvalidConfig, err)
	}

	return &Client{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.With("component", "gemini"),
	}, nil
}

// Complete sends one prompt and returns the model's reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(c.temperature)),
			MaxOutputTokens: int32(c.maxTokens),
		})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	content := response.Text()
	if content == "" {
		return "", fmt.Errorf("%w: empty gemini response", analysis.ErrInvalidResponse)
	}

	c.logger.Debug("completion received",
		"model", c.model,
		"prompt_length", len(prompt),
		"response_length", len(content))
	return content, nil
}
