package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/artikelin/api/internal/config"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
// Both supported providers expose one.
type OpenAIClient struct {
	name        string
	client      openai.Client
	model       string
	temperature float64
	jsonMode    bool
	configured  bool
}

// NewOpenAIClient creates a client for the named provider profile
func NewOpenAIClient(name string, cfg *config.LLMConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// one attempt per job; failures are terminal
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		name:        name,
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		jsonMode:    cfg.JSONMode,
		configured:  cfg.APIKey != "",
	}
}

func (c *OpenAIClient) Name() string { return c.name }

// IsConfigured returns true if an API key is set
func (c *OpenAIClient) IsConfigured() bool { return c.configured }

// GenerateArticle sends one chat completion and parses the article out of it
func (c *OpenAIClient) GenerateArticle(ctx context.Context, req *GenerateRequest) (*GeneratedArticle, error) {
	if !c.configured {
		return nil, fmt.Errorf("%s API key is not configured", c.name)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(articleSystemPrompt),
			openai.UserMessage(BuildArticlePrompt(req)),
		},
		Temperature: openai.Float(c.temperature),
	}
	if c.jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%s API error (status %d): %s", c.name, apiErr.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no completion choices", c.name)
	}

	article, err := ParseArticle(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%s returned invalid JSON format: %w", c.name, err)
	}
	return article, nil
}
