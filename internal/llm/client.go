// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the language-model collaborator behind a single-turn
// chat interface. All context is re-supplied per call; the collaborator
// retains nothing between calls.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// Client performs a stateless single-turn chat completion. Implementations
// return the model's raw text response.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// OpenAIClient implements Client using the OpenAI chat completions API.
// OpenAI-compatible services are supported through a custom BaseURL.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client from the AI configuration. A missing API
// key is a configuration error: the loop must not be constructed without its
// model collaborator.
func NewOpenAIClient(cfg types.AIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	var client *openai.Client
	if cfg.BaseURL != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		clientConfig.BaseURL = cfg.BaseURL
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(cfg.APIKey)
	}

	return &OpenAIClient{client: client, model: model}, nil
}

// Complete sends one system+user exchange and returns the model's text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from model")
	}
	return resp.Choices[0].Message.Content, nil
}
