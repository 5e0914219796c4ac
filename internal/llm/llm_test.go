// Copyright (c) 2026 ScholarLink. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
)

func TestProviderFor(t *testing.T) {
	tests := []struct {
		model    string
		expected string
	}{
		{"gpt-4o", ProviderOpenAI},
		{"o4-mini", ProviderOpenAI},
		{"gemini-2.0-flash", ProviderGemini},
		{"deepseek-chat", ProviderDeepSeek},
		{"deepseek/deepseek-chat", ProviderDeepSeek},
		{"unknown-model", ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProviderFor(tt.model))
		})
	}
}

func TestNew_ReturnsMatchingClient(t *testing.T) {
	assert.IsType(t, &OpenAIClient{}, New(Config{Provider: ProviderOpenAI}))
	assert.IsType(t, &GeminiClient{}, New(Config{Provider: ProviderGemini}))
	assert.IsType(t, &DeepSeekClient{}, New(Config{Provider: ProviderDeepSeek}))
	assert.IsType(t, &OpenAIClient{}, New(Config{Provider: "something-else"}))
}

func TestOpenAIClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer test-key", request.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		require.Len(t, body.Messages, 1)

		_ = json.NewEncoder(writer).Encode(chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: `{"orcid_id":"0000-0002-1825-0097"}`}}},
		})
	}))
	defer server.Close()

	original := openaiAPIURL
	openaiAPIURL = server.URL
	defer func() { openaiAPIURL = original }()

	client := &OpenAIClient{Model: "gpt-4o", APIKey: "test-key"}
	text, err := client.Complete(context.Background(), "Search for this researcher: nom: Abik")

	require.NoError(t, err)
	assert.Contains(t, text, "0000-0002-1825-0097")
}

func TestOpenAIClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	original := openaiAPIURL
	openaiAPIURL = server.URL
	defer func() { openaiAPIURL = original }()

	client := &OpenAIClient{Model: "gpt-4o", APIKey: "test-key"}
	_, err := client.Complete(context.Background(), "prompt")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "PROVIDER_UNAVAILABLE", ae.Code)
	assert.True(t, ae.Retryable)
}

func TestGeminiClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Contains(t, request.URL.Path, "gemini-2.0-flash")
		assert.Equal(t, "secret", request.URL.Query().Get("key"))

		_ = json.NewEncoder(writer).Encode(geminiResponse{
			Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{{Text: "answer"}}}}},
		})
	}))
	defer server.Close()

	original := geminiAPIBase
	geminiAPIBase = server.URL
	defer func() { geminiAPIBase = original }()

	client := &GeminiClient{Model: "gemini-2.0-flash", APIKey: "secret"}
	text, err := client.Complete(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestExtractJSON(t *testing.T) {
	type payload struct {
		OrcidID    string  `json:"orcid_id"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name     string
		input    string
		ok       bool
		expected string
	}{
		{"bare_json", `{"orcid_id":"0000-0002-1825-0097","confidence":0.9}`, true, "0000-0002-1825-0097"},
		{"fenced_block", "Here is the result:\n```json\n{\"orcid_id\":\"0000-0002-1825-0097\"}\n```\nHope this helps!", true, "0000-0002-1825-0097"},
		{"prose_wrapped", `Based on my search, the answer is {"orcid_id":"0000-0002-1825-0097","confidence":0.8} as requested.`, true, "0000-0002-1825-0097"},
		{"no_json", "I could not find any researcher matching that name.", false, ""},
		{"empty", "", false, ""},
		{"malformed", `{"orcid_id": unterminated`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			ok := ExtractJSON(tt.input, &p)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, p.OrcidID)
			}
		})
	}
}
