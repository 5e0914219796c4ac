// Copyright (c) 2026 ScholarLink. All rights reserved.

package apikey

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbadaoui/scholarlink/internal/llm"
)

type memoryKeyRepository struct {
	keys    Keys
	readErr error
}

func (repo *memoryKeyRepository) GetKeys(ctx context.Context) (Keys, error) {
	if repo.readErr != nil {
		return Keys{}, repo.readErr
	}
	return repo.keys, nil
}

func (repo *memoryKeyRepository) UpsertKeys(ctx context.Context, keys Keys) (Keys, error) {
	now := time.Now()
	keys.UpdatedAt = &now
	repo.keys = keys
	return keys, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKeyFor_StoredKeyTakesPrecedence(t *testing.T) {
	repo := &memoryKeyRepository{keys: Keys{CleOpenAI: "sk-stored"}}
	service := NewService(repo, map[string]string{llm.ProviderOpenAI: "sk-env"}, testLogger())

	key, err := service.KeyFor(context.Background(), llm.ProviderOpenAI)

	require.NoError(t, err)
	assert.Equal(t, "sk-stored", key)
}

func TestKeyFor_FallsBackToEnvironment(t *testing.T) {
	repo := &memoryKeyRepository{}
	service := NewService(repo, map[string]string{llm.ProviderGemini: "env-gemini"}, testLogger())

	key, err := service.KeyFor(context.Background(), llm.ProviderGemini)

	require.NoError(t, err)
	assert.Equal(t, "env-gemini", key)
}

func TestKeyFor_StorageFailureDegradesToEnvironment(t *testing.T) {
	repo := &memoryKeyRepository{readErr: errors.New("connection refused")}
	service := NewService(repo, map[string]string{llm.ProviderDeepSeek: "env-deepseek"}, testLogger())

	key, err := service.KeyFor(context.Background(), llm.ProviderDeepSeek)

	require.NoError(t, err)
	assert.Equal(t, "env-deepseek", key)
}

func TestKeyFor_NoKeyAnywhereIsEmpty(t *testing.T) {
	service := NewService(&memoryKeyRepository{}, nil, testLogger())

	key, err := service.KeyFor(context.Background(), llm.ProviderOpenAI)

	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestUpdateKeys_EmptyFieldsKeepCurrentValues(t *testing.T) {
	repo := &memoryKeyRepository{keys: Keys{CleOpenAI: "sk-old-openai", CleGemini: "old-gemini"}}
	service := NewService(repo, nil, testLogger())

	stored, err := service.UpdateKeys(context.Background(), Keys{CleGemini: "new-gemini"})

	require.NoError(t, err)
	assert.Equal(t, "sk-old-openai", stored.CleOpenAI, "unset field must survive rotation")
	assert.Equal(t, "new-gemini", stored.CleGemini)
}

func TestGetMasked(t *testing.T) {
	repo := &memoryKeyRepository{keys: Keys{CleOpenAI: "sk-abcdef123456", CleDeepSeek: "abc"}}
	service := NewService(repo, nil, testLogger())

	keys, err := service.GetMasked(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "****3456", keys.CleOpenAI)
	assert.Equal(t, "****", keys.CleDeepSeek)
	assert.Empty(t, keys.CleGemini)
}
