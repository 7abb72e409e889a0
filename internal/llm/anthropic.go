// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5-20250929"

const systemPrompt = "You are an aerospace research analyst. You produce conservative, structured outputs and do not invent facts. When asked for JSON, return strict JSON only."

// AnthropicMessager is the subset of the Anthropic client the backend uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	Messages    AnthropicMessager
	Model       string
	MaxTokens   int64
	Temperature float64
}

// NewAnthropic builds a backend from an API key.
func NewAnthropic(apiKey, model string, temperature float64) *Anthropic {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{Messages: &c.Messages, Model: model, MaxTokens: 4096, Temperature: temperature}
}

// Name returns "anthropic".
func (a *Anthropic) Name() string { return "anthropic" }

// Complete sends prompt as a single user turn and joins the text blocks of the reply.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	resp, err := a.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.Model),
		MaxTokens:   maxTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(a.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyCompletion)
	}
	return sb.String(), nil
}
