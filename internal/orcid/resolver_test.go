// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbadaoui/scholarlink/internal/llm"
	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
)

// discardLogger silences log output in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubKeys is a KeySource with fixed keys per provider.
type stubKeys map[string]string

func (keys stubKeys) KeyFor(ctx context.Context, provider string) (string, error) {
	return keys[provider], nil
}

// stubRegistry fakes the ORCID registry.
type stubRegistry struct {
	records map[string]*Record
	hits    []SearchHit

	fetchCalls  int
	searchCalls int
}

func (registry *stubRegistry) FetchRecord(ctx context.Context, orcidID string) (*Record, error) {
	registry.fetchCalls++
	if record, ok := registry.records[orcidID]; ok {
		return record, nil
	}
	return nil, apperr.NotFound("ORCID record")
}

func (registry *stubRegistry) ExpandedSearch(ctx context.Context, givenNames, familyName string) ([]SearchHit, error) {
	registry.searchCalls++
	return registry.hits, nil
}

// stubProvider returns canned responses, or errors, in order.
type stubProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (provider *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	index := provider.calls
	provider.calls++
	if index < len(provider.errs) && provider.errs[index] != nil {
		return "", provider.errs[index]
	}
	if index < len(provider.responses) {
		return provider.responses[index], nil
	}
	return provider.responses[len(provider.responses)-1], nil
}

// newTestResolver builds a resolver with everything stubbed.
func newTestResolver(provider llm.Provider, registry Registry, keys KeySource) *Resolver {
	resolver := NewResolver(keys, registry, nil, discardLogger())
	resolver.newProvider = func(cfg llm.Config) llm.Provider { return provider }
	return resolver
}

var testCandidate = Candidate{
	FirstName:   "Mounia",
	LastName:    "Abik",
	Affiliation: "ENSIAS",
	RowContext:  RawRow{"prenom": "Mounia", "nom": "Abik", "institution": "ENSIAS"},
}

func TestResolver_Resolve_ConfirmedMatch(t *testing.T) {
	registry := &stubRegistry{records: map[string]*Record{
		"0000-0002-1825-0097": {},
	}}
	provider := &stubProvider{responses: []string{
		`{"orcid_id":"0000-0002-1825-0097","country":"Morocco","main_research_area":"Computer Science","specific_research_area":"NLP","confidence":0.92,"reasoning":"Affiliation matches ENSIAS."}`,
	}}

	resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
	resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.NoError(t, err)
	assert.Equal(t, "0000-0002-1825-0097", resolution.OrcidID)
	assert.Equal(t, "Morocco", resolution.Country)
	assert.InDelta(t, 0.92, resolution.Confidence, 0.001)
	assert.Equal(t, 1, registry.fetchCalls, "confirmation fetch expected")
}

func TestResolver_Resolve_ClampsReportedConfidence(t *testing.T) {
	registry := &stubRegistry{records: map[string]*Record{
		"0000-0002-1825-0097": {},
	}}

	t.Run("above one", func(t *testing.T) {
		provider := &stubProvider{responses: []string{
			`{"orcid_id":"0000-0002-1825-0097","confidence":7.3,"reasoning":"overenthusiastic"}`,
		}}

		resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
		resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

		require.NoError(t, err)
		assert.Equal(t, "0000-0002-1825-0097", resolution.OrcidID)
		assert.Equal(t, 1.0, resolution.Confidence)
	})

	t.Run("below zero", func(t *testing.T) {
		provider := &stubProvider{responses: []string{
			`{"orcid_id":"0000-0002-1825-0097","confidence":-0.4,"reasoning":"negative"}`,
		}}

		resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
		resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

		require.NoError(t, err)
		assert.Zero(t, resolution.Confidence)
	})
}

func TestResolver_Resolve_MissingKeyFailsFast(t *testing.T) {
	provider := &stubProvider{responses: []string{`{}`}}
	resolver := newTestResolver(provider, &stubRegistry{}, stubKeys{})

	_, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFIG_ERROR", ae.Code)
	assert.Zero(t, provider.calls, "no network call may happen without a key")
}

func TestResolver_Resolve_MalformedIDBecomesNotFound(t *testing.T) {
	registry := &stubRegistry{}
	provider := &stubProvider{responses: []string{
		`{"orcid_id":"0000-0002-1825","confidence":0.9,"reasoning":"guess"}`,
	}}

	resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
	resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.NoError(t, err)
	assert.Empty(t, resolution.OrcidID)
	assert.Zero(t, resolution.Confidence)
	assert.Contains(t, resolution.Reasoning, "malformed")
	assert.Zero(t, registry.fetchCalls, "malformed iDs never reach the registry")
}

func TestResolver_Resolve_HallucinatedIDBecomesNotFound(t *testing.T) {
	registry := &stubRegistry{records: map[string]*Record{}}
	provider := &stubProvider{responses: []string{
		`{"orcid_id":"0000-0002-9999-9999","confidence":0.95,"reasoning":"confident but wrong"}`,
	}}

	resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
	resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.NoError(t, err)
	assert.Empty(t, resolution.OrcidID)
	assert.Contains(t, resolution.Reasoning, "no such record")
}

func TestResolver_Resolve_UnparseableResponse(t *testing.T) {
	provider := &stubProvider{responses: []string{
		"I'm sorry, I could not find that researcher.",
	}}

	resolver := newTestResolver(provider, &stubRegistry{}, stubKeys{"openai": "sk-test"})
	_, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.Error(t, err)
	assert.Equal(t, "PARSE_ERROR", apperr.CodeOf(err))
}

func TestResolver_Resolve_RetriesRetryableErrors(t *testing.T) {
	originalBackoff := backoffBase
	backoffBase = time.Millisecond
	defer func() { backoffBase = originalBackoff }()

	registry := &stubRegistry{records: map[string]*Record{
		"0000-0002-1825-0097": {},
	}}
	provider := &stubProvider{
		errs: []error{apperr.Provider("OpenAI", nil), nil},
		responses: []string{
			"",
			`{"orcid_id":"0000-0002-1825-0097","confidence":0.8,"reasoning":"ok"}`,
		},
	}

	resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
	resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.NoError(t, err)
	assert.Equal(t, "0000-0002-1825-0097", resolution.OrcidID)
	assert.Equal(t, 2, provider.calls)
}

func TestResolver_Resolve_NameSearchFallback(t *testing.T) {
	registry := &stubRegistry{
		records: map[string]*Record{"0000-0002-1694-233X": {}},
		hits: []SearchHit{
			{OrcidID: "0000-0002-1694-233X", GivenNames: "Mounia", FamilyNames: "Abik"},
		},
	}
	provider := &stubProvider{responses: []string{
		`{"orcid_id":"","confidence":0,"reasoning":"No confident match."}`,
	}}

	resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
	resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.NoError(t, err)
	assert.Equal(t, "0000-0002-1694-233X", resolution.OrcidID)
	assert.Equal(t, 1, registry.searchCalls)
}

func TestResolver_Resolve_AmbiguousNameSearchStaysNotFound(t *testing.T) {
	registry := &stubRegistry{
		hits: []SearchHit{
			{OrcidID: "0000-0002-1111-1111", GivenNames: "Mounia", FamilyNames: "Abik"},
			{OrcidID: "0000-0002-2222-2222", GivenNames: "Mounia", FamilyNames: "Abik"},
		},
	}
	provider := &stubProvider{responses: []string{
		`{"orcid_id":"","confidence":0,"reasoning":"No confident match."}`,
	}}

	resolver := newTestResolver(provider, registry, stubKeys{"openai": "sk-test"})
	resolution, err := resolver.Resolve(context.Background(), testCandidate, "gpt-4o")

	require.NoError(t, err)
	assert.Empty(t, resolution.OrcidID, "namesakes must not be guessed between")
}

func TestRenderResolvePrompt_UsesRowContext(t *testing.T) {
	prompt, err := renderResolvePrompt(testCandidate)

	require.NoError(t, err)
	assert.Contains(t, prompt, "Search for this researcher:")
	assert.Contains(t, prompt, "nom: Abik")
	assert.Contains(t, prompt, "institution: ENSIAS")
}
