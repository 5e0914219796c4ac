// Copyright (c) 2026 ScholarLink. All rights reserved.

// Package similarity proxies search requests to the external project
// similarity service.
//
// The service is an optional collaborator: it ranks stored project
// descriptions against a query using embeddings. Nothing else in ScholarLink
// depends on it, and an outage degrades to a 503 on this endpoint only.
package similarity

// SearchRequest is a similarity query. TopK and SimilarityThreshold are
// optional; the client fills defaults.
type SearchRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	TopK                *int     `json:"top_k,omitempty"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

// Match is one ranked result from the similarity service.
type Match struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	SimilarityScore float64        `json:"similarity_score"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// SearchResult is the ranked result set for one query.
type SearchResult struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
}

const (
	defaultTopK      = 5
	defaultThreshold = 0.5
)
