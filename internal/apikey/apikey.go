// Copyright (c) 2026 ScholarLink. All rights reserved.

// Package apikey stores the LLM provider credentials used for resolution.
//
// Keys live in the single-row 'cles_api' table so operators can rotate them
// at runtime without a redeploy. Environment variables act as a fallback for
// providers with no stored key.
package apikey

import (
	"context"
	"time"
)

// Keys holds one credential per supported LLM provider. Empty means unset.
type Keys struct {
	CleOpenAI   string `json:"cle_openai"`
	CleGemini   string `json:"cle_gemini"`
	CleDeepSeek string `json:"cle_deepseek"`

	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Repository interface {
	GetKeys(context context.Context) (Keys, error)
	UpsertKeys(context context.Context, keys Keys) (Keys, error)
}
