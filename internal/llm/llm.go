package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/quizrunner/internal/llm/prompts"
	"github.com/pavelanni/quizrunner/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyExplanation is returned when the model answers without text.
var ErrEmptyExplanation = errors.New("LLM returned an empty explanation")

// Explanation is the model's account of a missed question.
type Explanation struct {
	Text string `json:"explanation"`
	Raw  string `json:"-"`
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api     *openai.Client
	model   string
	variant prompts.Variant
}

// New creates a new LLM client. variant selects the prompt style.
func New(baseURL, apiKey, modelName, variant string) (*Client, error) {
	if !prompts.IsValidVariant(variant) {
		return nil, fmt.Errorf("invalid prompt variant %q", variant)
	}
	if err := prompts.Load(nil); err != nil {
		return nil, err
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		variant: prompts.Variant(variant),
	}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Ping checks that the endpoint is reachable and serves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	for _, m := range list.Models {
		if m.ID == c.model {
			return nil
		}
	}
	slog.Warn("model not listed by endpoint", "model", c.model, "available", len(list.Models))
	return nil
}

// Explain asks the model why q's correct answer is right. selected is the
// learner's answer as labels and may be empty.
func (c *Client) Explain(ctx context.Context, q model.Question, selected string) (*Explanation, error) {
	systemPrompt, err := prompts.BuildExplainPrompt(c.variant, q, selected)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)
	return parseExplanation(raw)
}

func parseExplanation(raw string) (*Explanation, error) {
	var ex Explanation
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}
	ex.Text = strings.TrimSpace(ex.Text)
	if ex.Text == "" {
		return nil, ErrEmptyExplanation
	}
	ex.Raw = raw
	return &ex, nil
}
