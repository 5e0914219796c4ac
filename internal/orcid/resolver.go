// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"text/template"
	"time"

	"golang.org/x/time/rate"

	"github.com/hbadaoui/scholarlink/internal/llm"
	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/pkg/personname"
)

// resolvePromptTmpl instructs the model to locate a researcher's ORCID iD
// and answer in strict JSON. Models routinely ignore the "JSON only" clause,
// which is why responses go through llm.ExtractJSON.
var resolvePromptTmpl = template.Must(template.New("resolve").Parse(`You are a researcher identity resolution assistant with access to public academic information.

Search for this researcher: {{.RowData}}

Determine the researcher's ORCID iD if one exists. Use every provided field (name, affiliation, email, country) to disambiguate between researchers with similar names. If you cannot identify the researcher with reasonable certainty, leave orcid_id empty.

Respond with a single JSON object and nothing else:
{"orcid_id": "0000-0000-0000-0000 or empty string", "country": "...", "main_research_area": "...", "specific_research_area": "...", "confidence": 0.0, "reasoning": "..."}

- orcid_id must be the bare 16-character identifier, not a URL.
- confidence is your certainty in [0,1] that the iD belongs to this exact person.
- reasoning briefly explains how you matched or why you could not.
`))

// Registry is the subset of the ORCID client the resolver needs. Tests
// substitute a stub.
type Registry interface {
	FetchRecord(ctx context.Context, orcidID string) (*Record, error)
	ExpandedSearch(ctx context.Context, givenNames, familyName string) ([]SearchHit, error)
}

// KeySource supplies the API key for a provider, checking stored keys first
// and environment fallbacks second.
type KeySource interface {
	KeyFor(ctx context.Context, provider string) (string, error)
}

// Resolver resolves one row of researcher data to a confirmed ORCID iD.
type Resolver struct {
	keys       KeySource
	registry   Registry
	limiter    *rate.Limiter
	logger     *slog.Logger
	maxRetries int

	// newProvider builds the LLM client for a config. Tests replace it.
	newProvider func(llm.Config) llm.Provider
}

// NewResolver wires a resolver. The limiter throttles all outbound provider
// calls and is shared across every batch.
func NewResolver(keys KeySource, registry Registry, limiter *rate.Limiter, logger *slog.Logger) *Resolver {
	return &Resolver{
		keys:        keys,
		registry:    registry,
		limiter:     limiter,
		logger:      logger,
		maxRetries:  2,
		newProvider: llm.New,
	}
}

// Resolve runs one resolution: prompt the model, parse, validate, and
// confirm the claimed iD against the registry.
//
// # Outcomes
//
//   - Confirmed iD: Resolution.OrcidID set, all facets carried through.
//   - No match (including malformed or hallucinated iDs): OrcidID empty,
//     Reasoning explains; err is nil — this is a valid negative result.
//   - ConfigError: no API key for the model's provider; returned before any
//     network call.
//   - Provider/Parse errors: the call itself failed; the caller decides
//     whether to retry or record a diagnostic.
func (resolver *Resolver) Resolve(ctx context.Context, candidate Candidate, modelName string) (Resolution, error) {
	providerName := llm.ProviderFor(modelName)

	apiKey, err := resolver.keys.KeyFor(ctx, providerName)
	if err != nil {
		return Resolution{}, err
	}
	if apiKey == "" {
		return Resolution{}, apperr.ConfigError(fmt.Sprintf("API key not found for model: %s", modelName))
	}

	prompt, err := renderResolvePrompt(candidate)
	if err != nil {
		return Resolution{}, fmt.Errorf("orcid: rendering prompt: %w", err)
	}

	provider := resolver.newProvider(llm.Config{
		Provider: providerName,
		Model:    modelName,
		APIKey:   apiKey,
	})

	raw, err := resolver.completeWithRetry(ctx, provider, prompt)
	if err != nil {
		return Resolution{}, err
	}

	var resolution Resolution
	if !llm.ExtractJSON(raw, &resolution) {
		return Resolution{}, apperr.Parse("Model response did not contain a JSON object", fmt.Errorf("raw: %s", truncateText(raw, 300)))
	}
	resolution.OrcidID = strings.TrimSpace(resolution.OrcidID)

	// Confidence is bounded to [0,1]; models occasionally report values
	// outside it.
	if resolution.Confidence < 0 {
		resolution.Confidence = 0
	} else if resolution.Confidence > 1 {
		resolution.Confidence = 1
	}

	// The model found nothing; try an exact-name registry search before
	// giving up. Accented and plain spellings are folded for comparison.
	if resolution.OrcidID == "" && candidate.FirstName != "" && candidate.LastName != "" {
		if hit := resolver.searchByName(ctx, candidate); hit != nil {
			resolution.OrcidID = hit.OrcidID
			resolution.Confidence = 0.5
			resolution.Reasoning = strings.TrimSpace(resolution.Reasoning + " | Matched by exact name in ORCID registry search.")
		}
	}

	if resolution.OrcidID == "" {
		return resolution, nil
	}

	// Confirm before trusting: structural check, then a registry fetch.
	// Anything the registry does not know is discarded as a non-match.
	if !ValidID(resolution.OrcidID) {
		resolver.logger.WarnContext(ctx, "orcid_malformed_id_rejected",
			slog.String("claimed_id", resolution.OrcidID),
			slog.String("model", modelName),
		)
		resolution.Reasoning = fmt.Sprintf("Model returned malformed ORCID iD %q; treated as not found.", resolution.OrcidID)
		resolution.OrcidID = ""
		resolution.Confidence = 0
		return resolution, nil
	}

	if _, err := resolver.registry.FetchRecord(ctx, resolution.OrcidID); err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			resolver.logger.WarnContext(ctx, "orcid_hallucinated_id_rejected",
				slog.String("claimed_id", resolution.OrcidID),
				slog.String("model", modelName),
			)
			resolution.Reasoning = fmt.Sprintf("Model returned ORCID iD %s but the registry has no such record; treated as not found.", resolution.OrcidID)
			resolution.OrcidID = ""
			resolution.Confidence = 0
			return resolution, nil
		}
		return Resolution{}, err
	}

	return resolution, nil
}

// searchByName queries the registry by name and returns a hit only when
// exactly one candidate matches the folded name on both parts.
func (resolver *Resolver) searchByName(ctx context.Context, candidate Candidate) *SearchHit {
	hits, err := resolver.registry.ExpandedSearch(ctx, personname.Fold(candidate.FirstName), personname.Fold(candidate.LastName))
	if err != nil {
		resolver.logger.WarnContext(ctx, "orcid_name_search_failed", slog.Any("error", err))
		return nil
	}

	var match *SearchHit
	for i := range hits {
		hit := &hits[i]
		if personname.Equal(hit.GivenNames, candidate.FirstName) && personname.Equal(hit.FamilyNames, candidate.LastName) {
			if match != nil {
				// Ambiguous; refuse to guess between namesakes.
				return nil
			}
			match = hit
		}
	}
	return match
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// completeWithRetry calls the provider with rate limiting and exponential
// backoff on retryable failures.
func (resolver *Resolver) completeWithRetry(ctx context.Context, provider llm.Provider, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= resolver.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		if resolver.limiter != nil {
			if err := resolver.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		raw, err := provider.Complete(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !apperr.IsRetryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("orcid: after %d retries: %w", resolver.maxRetries, lastErr)
}

// renderResolvePrompt fills the resolution template for one candidate.
func renderResolvePrompt(candidate Candidate) (string, error) {
	row := candidate.RowContext
	if len(row) == 0 {
		row = RawRow{}
		if candidate.FirstName != "" {
			row["first_name"] = candidate.FirstName
		}
		if candidate.LastName != "" {
			row["last_name"] = candidate.LastName
		}
		if candidate.Affiliation != "" {
			row["affiliation"] = candidate.Affiliation
		}
		if candidate.Email != "" {
			row["email"] = candidate.Email
		}
		if candidate.Country != "" {
			row["country"] = candidate.Country
		}
	}

	var builder strings.Builder
	err := resolvePromptTmpl.Execute(&builder, struct{ RowData string }{RowData: FormatRowData(row)})
	return builder.String(), err
}

// truncateText bounds diagnostic strings carried inside errors.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
