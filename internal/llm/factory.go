// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// New builds the configured backend wrapped in retries. It returns a nil
// Completer for the "none" provider, and for a keyed provider with no key,
// so callers fall back to their deterministic paths.
func New(ctx context.Context, cfg types.AIConfig) (Completer, error) {
	var (
		c   Completer
		err error
	)
	switch cfg.Provider {
	case "", types.ProviderNone:
		return nil, nil
	case types.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, nil
		}
		c = NewAnthropic(cfg.APIKey, cfg.Model, cfg.Temperature)
	case types.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, nil
		}
		c = NewOpenAI("openai", cfg.APIKey, cfg.BaseURL, orDefault(cfg.Model, DefaultOpenAIModel), cfg.Temperature)
	case types.ProviderGroq:
		if cfg.APIKey == "" {
			return nil, nil
		}
		c = NewOpenAI("groq", cfg.APIKey, orDefault(cfg.BaseURL, GroqBaseURL), orDefault(cfg.Model, DefaultGroqModel), cfg.Temperature)
	case types.ProviderOllama:
		c, err = NewOllama(cfg.BaseURL, cfg.APIKey, orDefault(cfg.Model, DefaultOllamaModel), cfg.Temperature)
	case types.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, nil
		}
		c, err = NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.MaxRetries > 0 {
		c = &Retrying{Completer: c, MaxRetries: cfg.MaxRetries}
	}
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
