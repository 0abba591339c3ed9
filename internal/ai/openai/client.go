package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openailib "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4-turbo-preview"

// Client wraps the OpenAI chat-completion API behind the prompt-in,
// text-out shape the agents expect.
type Client struct {
	client      *openailib.Client
	model       string
	temperature float32
}

func New(apiKey, model string, temperature float32) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		client:      openailib.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openailib.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openailib.ChatCompletionMessage{
			{Role: openailib.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	return output, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
