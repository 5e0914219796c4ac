// Copyright (c) 2026 ScholarLink. All rights reserved.

package apikey

import (
	"context"
	"log/slog"

	"github.com/hbadaoui/scholarlink/internal/llm"
)

type Service struct {
	repo      Repository
	fallbacks map[string]string
	logger    *slog.Logger
}

// NewService wires the key service. fallbacks maps provider names to
// environment-supplied keys used when the stored key is empty.
func NewService(repo Repository, fallbacks map[string]string, logger *slog.Logger) *Service {
	if fallbacks == nil {
		fallbacks = map[string]string{}
	}
	return &Service{
		repo:      repo,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// KeyFor returns the API key for a provider: stored key first, environment
// fallback second, empty string when neither is set.
//
// A storage failure degrades to the environment fallback so that a database
// hiccup does not take resolution down with it.
func (service *Service) KeyFor(ctx context.Context, provider string) (string, error) {
	keys, err := service.repo.GetKeys(ctx)
	if err != nil {
		service.logger.WarnContext(ctx, "api_keys_read_failed", slog.Any("error", err))
		return service.fallbacks[provider], nil
	}

	stored := ""
	switch provider {
	case llm.ProviderOpenAI:
		stored = keys.CleOpenAI
	case llm.ProviderGemini:
		stored = keys.CleGemini
	case llm.ProviderDeepSeek:
		stored = keys.CleDeepSeek
	}

	if stored != "" {
		return stored, nil
	}
	return service.fallbacks[provider], nil
}

// UpdateKeys replaces stored keys. Empty fields keep their current value so
// an operator can rotate a single provider without re-entering the others.
func (service *Service) UpdateKeys(ctx context.Context, input Keys) (Keys, error) {
	current, err := service.repo.GetKeys(ctx)
	if err != nil {
		return Keys{}, err
	}

	if input.CleOpenAI == "" {
		input.CleOpenAI = current.CleOpenAI
	}
	if input.CleGemini == "" {
		input.CleGemini = current.CleGemini
	}
	if input.CleDeepSeek == "" {
		input.CleDeepSeek = current.CleDeepSeek
	}

	stored, err := service.repo.UpsertKeys(ctx, input)
	if err != nil {
		return Keys{}, err
	}

	service.logger.InfoContext(ctx, "api_keys_updated",
		slog.Bool("openai_set", stored.CleOpenAI != ""),
		slog.Bool("gemini_set", stored.CleGemini != ""),
		slog.Bool("deepseek_set", stored.CleDeepSeek != ""),
	)
	return stored, nil
}

// GetMasked returns the stored keys with their values masked for display.
// Full key material never leaves the server once stored.
func (service *Service) GetMasked(ctx context.Context) (Keys, error) {
	keys, err := service.repo.GetKeys(ctx)
	if err != nil {
		return Keys{}, err
	}

	keys.CleOpenAI = Mask(keys.CleOpenAI)
	keys.CleGemini = Mask(keys.CleGemini)
	keys.CleDeepSeek = Mask(keys.CleDeepSeek)
	return keys, nil
}

// Mask hides a credential, keeping only the last four characters as a
// recognition hint.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
