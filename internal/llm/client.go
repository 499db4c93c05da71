// Package llm asks an OpenAI-compatible chat model to break a goal into
// weighted, dated steps.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
)

type Suggester interface {
	SuggestSubtasks(ctx context.Context, goal string) ([]dto.Suggestion, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:   openai.NewClientWithConfig(oc),
		model: cfg.Model,
	}
}

func (c *Client) SuggestSubtasks(ctx context.Context, goal string) ([]dto.Suggestion, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildBreakdownPrompt(goal)},
		},
		Temperature: 1,
		TopP:        1,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLLMUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", apperrors.ErrLLMBadOutput)
	}

	return ParseSuggestions(resp.Choices[0].Message.Content)
}
