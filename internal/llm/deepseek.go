// Copyright (c) 2026 ScholarLink. All rights reserved.

package llm

import (
	"context"
	"net/http"
)

// deepseekAPIURL is the DeepSeek endpoint (OpenAI-compatible wire format).
// Package-level var for test substitution.
var deepseekAPIURL = "https://api.deepseek.com/v1/chat/completions"

// DeepSeekClient calls the DeepSeek chat completions API.
//
// DeepSeek tends to wrap its JSON answers in explanatory prose, so callers
// should always run the output through [ExtractJSON].
type DeepSeekClient struct {
	Model  string
	APIKey string
	Client *http.Client
}

// Complete sends the prompt and returns the assistant's text.
func (client *DeepSeekClient) Complete(ctx context.Context, prompt string) (string, error) {
	return completeChat(ctx, client.Client, deepseekAPIURL, client.APIKey, client.Model, prompt, "DeepSeek")
}
