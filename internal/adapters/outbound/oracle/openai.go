// Package oracle implements domain.Oracle over an OpenAI-compatible chat
// completion API.
package oracle

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mendkit/mend/internal/domain"
)

const systemPrompt = "You are a precise code remediation assistant. You respond only in the requested format."

// Client calls a chat completion endpoint. A custom base URL allows local
// or proxied OpenAI-compatible backends.
type Client struct {
	api          *openai.Client
	defaultModel string
}

// New builds a Client from run configuration. The API key comes from
// MEND_API_KEY or OPENAI_API_KEY.
func New(cfg domain.OracleConfig) (*Client, error) {
	key := strings.TrimSpace(os.Getenv("MEND_API_KEY"))
	if key == "" {
		key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if key == "" {
		return nil, fmt.Errorf("no API key: set MEND_API_KEY or OPENAI_API_KEY")
	}

	apiCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = domain.DefaultOracleModel
	}
	return &Client{
		api:          openai.NewClientWithConfig(apiCfg),
		defaultModel: model,
	}, nil
}

// Generate sends one prompt and returns the raw completion text. An empty
// modelHint falls back to the configured model.
func (c *Client) Generate(ctx context.Context, prompt, modelHint string) (string, error) {
	model := modelHint
	if model == "" {
		model = c.defaultModel
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
