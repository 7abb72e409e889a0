// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultOpenAIModel is used when no model is configured for OpenAI.
	DefaultOpenAIModel = "gpt-4o-mini"

	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultGroqModel is used when no model is configured for Groq.
	DefaultGroqModel = "llama-3.1-8b-instant"
)

// OpenAI calls an OpenAI-compatible chat completions endpoint. It serves
// both OpenAI and Groq.
type OpenAI struct {
	Client      *openai.Client
	Model       string
	Temperature float64
	name        string
}

// NewOpenAI builds a backend. An empty baseURL targets api.openai.com.
func NewOpenAI(name, apiKey, baseURL, model string, temperature float64) *OpenAI {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(options...)
	return &OpenAI{Client: &client, Model: model, Temperature: temperature, name: name}
}

// Name returns the provider name the backend was built for.
func (o *OpenAI) Name() string {
	if o.name == "" {
		return "openai"
	}
	return o.name
}

// Complete sends prompt as a single user message.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", o.Name(), err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w", o.Name(), ErrEmptyCompletion)
	}
	return response.Choices[0].Message.Content, nil
}
