// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaModel is used when no model is configured for Ollama.
const DefaultOllamaModel = "llama3.1"

// Ollama calls a local or hosted Ollama server.
type Ollama struct {
	Client      *api.Client
	Model       string
	Temperature float64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewOllama builds a backend for the server at baseURL
// (default http://localhost:11434). A non-empty apiKey is sent as a bearer token.
func NewOllama(baseURL, apiKey, model string, temperature float64) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama url: %w", err)
	}
	httpClient := http.DefaultClient
	if apiKey != "" {
		httpClient = &http.Client{Transport: &headerTransport{
			headers: map[string]string{"Authorization": "Bearer " + apiKey},
			rt:      http.DefaultTransport,
		}}
	}
	return &Ollama{Client: api.NewClient(u, httpClient), Model: model, Temperature: temperature}, nil
}

// Name returns "ollama".
func (o *Ollama) Name() string { return "ollama" }

// Complete runs a non-streaming chat and returns the assistant text.
func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: o.Model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": o.Temperature},
	}

	var content string
	if err := o.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		content += cr.Message.Content
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if content == "" {
		return "", fmt.Errorf("ollama: %w", ErrEmptyCompletion)
	}
	return content, nil
}
