// Copyright (c) 2026 ScholarLink. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
)

// openaiAPIURL is the chat completions endpoint. Package-level var for test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// defaultHTTPTimeout bounds a single provider round trip. Resolution prompts
// are small but models can think for a while.
const defaultHTTPTimeout = 120 * time.Second

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	Model  string
	APIKey string
	Client *http.Client
}

// chatRequest is the OpenAI-compatible request body. DeepSeek shares the
// same wire format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the OpenAI-compatible response body.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion candidate.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends the prompt as a single user message and returns the
// assistant's text.
func (client *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return completeChat(ctx, client.Client, openaiAPIURL, client.APIKey, client.Model, prompt, "OpenAI")
}

// completeChat implements the OpenAI-compatible chat completion call shared
// by the OpenAI and DeepSeek clients.
func completeChat(ctx context.Context, httpClient *http.Client, apiURL, apiKey, model, prompt, upstream string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshaling request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("llm: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+apiKey)

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return "", apperr.Provider(upstream, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return "", apperr.Provider(upstream, fmt.Errorf("status %d: %s", response.StatusCode, truncate(string(body), 500)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return "", apperr.Parse("Failed to decode "+upstream+" response", err)
	}

	if len(parsed.Choices) == 0 {
		return "", apperr.Parse(upstream+" returned no completion choices", nil)
	}

	return parsed.Choices[0].Message.Content, nil
}

// truncate bounds diagnostic strings carried inside errors.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
