// Copyright (c) 2026 ScholarLink. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
)

// geminiAPIBase is the Generative Language API base. Package-level var for
// test substitution. The model name is interpolated into the path.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient calls the Google Generative Language API.
type GeminiClient struct {
	Model  string
	APIKey string
	Client *http.Client
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent is one turn of the conversation.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiPart is a text fragment within a turn.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// geminiCandidate is one completion candidate.
type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Complete sends the prompt and returns the first candidate's text.
func (client *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiAPIBase, client.Model, client.APIKey)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("llm: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	httpClient := client.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return "", apperr.Provider("Gemini", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return "", apperr.Provider("Gemini", fmt.Errorf("status %d: %s", response.StatusCode, truncate(string(body), 500)))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return "", apperr.Parse("Failed to decode Gemini response", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", apperr.Parse("Gemini returned no candidates", nil)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
