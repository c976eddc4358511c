package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"TeamNewsBot/internal/config"
	"TeamNewsBot/internal/ports"
)

// ChatClient implements ports.TextGenerator for OpenAI-compatible chat-completion APIs.
// Groq is served by the same adapter through its OpenAI-compatible base URL.
type ChatClient struct {
	name   string
	model  string
	client *openai.Client
}

var _ ports.TextGenerator = (*ChatClient)(nil)

// NewChatClient builds a chat-completion client from provider configuration.
func NewChatClient(name string, cfg config.ProviderConfig, httpClient *http.Client) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	clientCfg.HTTPClient = httpClient

	return &ChatClient{
		name:   name,
		model:  cfg.Model,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Name identifies the provider in logs.
func (c *ChatClient) Name() string {
	return c.name
}

// Generate sends a system+user conversation and returns the first choice.
func (c *ChatClient) Generate(ctx context.Context, systemPrompt, userPrompt string, params ports.SamplingParams) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.name)
	}
	return resp.Choices[0].Message.Content, nil
}
