// Package groq talks to the Groq chat-completion API through its
// OpenAI-compatible endpoint.
package groq

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vregbot/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const (
	requestTimeout = 30 * time.Second

	// Generation parameters tuned for consistent support answers.
	temperature      = 0.1
	maxTokens        = 800
	topP             = 0.9
	frequencyPenalty = 0.1
)

type Client struct {
	cfg    *config.Config
	client *openai.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.Groq.Token)
	clientConfig.BaseURL = cfg.Groq.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return &Client{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Generate runs a single system+user completion and returns the trimmed
// response text.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.cfg.Groq.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature:      temperature,
			MaxTokens:        maxTokens,
			TopP:             topP,
			FrequencyPenalty: frequencyPenalty,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}
