// Copyright (c) 2026 ScholarLink. All rights reserved.

package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/internal/platform/validate"
	"github.com/hbadaoui/scholarlink/pkg/pointer"
)

const requestTimeout = 30 * time.Second

// Client talks to the similarity service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the configured endpoint. An empty endpoint
// is allowed; every search then fails with a service-unavailable error.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Search submits one query and returns the ranked matches.
func (client *Client) Search(ctx context.Context, request SearchRequest) (SearchResult, error) {
	validator := &validate.Validator{}
	err := validator.
		Required("title", request.Title).
		Custom("top_k", request.TopK != nil && *request.TopK < 1, "Must be at least 1").
		Custom("similarity_threshold",
			request.SimilarityThreshold != nil && (*request.SimilarityThreshold < 0 || *request.SimilarityThreshold > 1),
			"Must be between 0 and 1").
		Err()
	if err != nil {
		return SearchResult{}, err
	}

	if client.endpoint == "" {
		return SearchResult{}, apperr.Provider("Similarity service", fmt.Errorf("similarity: no endpoint configured"))
	}

	request.TopK = pointer.To(pointer.Fallback(request.TopK, defaultTopK))
	request.SimilarityThreshold = pointer.To(pointer.Fallback(request.SimilarityThreshold, defaultThreshold))

	body, err := json.Marshal(request)
	if err != nil {
		return SearchResult{}, fmt.Errorf("similarity: encoding request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(body))
	if err != nil {
		return SearchResult{}, fmt.Errorf("similarity: building request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		client.logger.WarnContext(ctx, "similarity_unreachable", slog.Any("error", err))
		return SearchResult{}, apperr.Provider("Similarity service", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return SearchResult{}, apperr.Provider("Similarity service",
			fmt.Errorf("similarity: unexpected status %d", response.StatusCode))
	}

	var result SearchResult
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return SearchResult{}, apperr.Parse("Similarity service returned an unreadable response", err)
	}

	if result.Total == 0 {
		result.Total = len(result.Matches)
	}
	return result, nil
}
