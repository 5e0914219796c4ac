// Copyright (c) 2026 ScholarLink. All rights reserved.

/*
Package llm abstracts the chat-completion APIs of the LLM providers used for
researcher identity resolution.

Architecture:

  - Provider: a single-method interface so the resolver and tests can swap
    real HTTP clients for mocks.
  - Routing: the provider is selected from the model name prefix (gpt-/o4- →
    OpenAI, gemini → Gemini, deepseek → DeepSeek).
  - Extraction: models are asked for strict JSON but frequently wrap it in
    prose or markdown fences; ExtractJSON recovers the object.

All network failures surface as apperr Provider errors so callers can map
them to 503 responses uniformly.
*/
package llm

import (
	"context"
	"strings"
)

// Provider names.
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// Provider abstracts a chat-completion API. Implementations send a single
// user prompt and return the raw assistant text.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config carries everything needed to construct a provider client.
type Config struct {
	Provider string
	Model    string
	APIKey   string
}

// ProviderFor routes a model name to a provider identifier.
//
// Unknown model names default to OpenAI, matching the behavior operators
// already rely on when new OpenAI model names ship.
func ProviderFor(modelName string) string {
	switch {
	case strings.HasPrefix(modelName, "o4-") || strings.HasPrefix(modelName, "gpt-"):
		return ProviderOpenAI
	case strings.Contains(modelName, "gemini"):
		return ProviderGemini
	case strings.Contains(modelName, "deepseek"):
		return ProviderDeepSeek
	default:
		return ProviderOpenAI
	}
}

// New constructs the concrete client for the given config.
func New(cfg Config) Provider {
	switch cfg.Provider {
	case ProviderGemini:
		return &GeminiClient{Model: cfg.Model, APIKey: cfg.APIKey}
	case ProviderDeepSeek:
		return &DeepSeekClient{Model: cfg.Model, APIKey: cfg.APIKey}
	default:
		return &OpenAIClient{Model: cfg.Model, APIKey: cfg.APIKey}
	}
}
