// Copyright (c) 2026 ScholarLink. All rights reserved.

/*
Package orcid implements researcher identity resolution against the ORCID
public registry.

Architecture:

  - Resolver: turns one row of tabular researcher data into a confirmed
    ORCID iD using an LLM provider, validating and confirming every claimed
    iD against the registry before it is trusted.
  - Batch: runs the resolver over many rows with bounded concurrency,
    preserving input order and isolating per-row failures.
  - Structurer: normalizes raw registry payloads into typed profile facets
    (affiliations, research fields, keywords, work titles).
  - Client: thin HTTP client for the registry's public v3.0 API with a
    Redis-backed profile cache.

The package never persists anything itself; confirmed candidates are handed
to the researcher package by the operator's explicit save action.
*/
package orcid

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Row status values. A row's OrcidID is non-empty if and only if its status
// is StatusFound.
const (
	StatusPending  = "pending"
	StatusFound    = "found"
	StatusNotFound = "not_found"
)

// idPattern is the canonical ORCID iD shape: four groups of four characters,
// all digits except an optional trailing checksum "X".
var idPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// ValidID reports whether s is a structurally valid ORCID iD.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// RawRow is one row of source table data, column name → raw cell value.
// Values are treated as opaque strings and never mutated.
type RawRow map[string]string

// CandidateRow is the resolution outcome for one source row.
type CandidateRow struct {
	// RowID is a stable identifier derived from the row's position and
	// content, used to address the row for retry without re-running siblings.
	RowID string `json:"row_id"`

	// Original preserves the source cells exactly as read.
	Original RawRow `json:"original_data"`

	OrcidID              string  `json:"orcid_id"`
	Status               string  `json:"status"`
	Confidence           float64 `json:"confidence"`
	Country              string  `json:"country,omitempty"`
	MainResearchArea     string  `json:"main_research_area,omitempty"`
	SpecificResearchArea string  `json:"specific_research_area,omitempty"`

	// Reasoning is the model's explanation, or a diagnostic message when
	// resolution failed for this row.
	Reasoning string `json:"reasoning,omitempty"`

	ResearchFields []string `json:"research_fields,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`

	// Selected marks rows the operator has ticked for saving/export.
	Selected bool `json:"selected"`
}

// Resolution is the parsed, validated output of one LLM resolution call.
type Resolution struct {
	OrcidID              string  `json:"orcid_id"`
	Country              string  `json:"country"`
	MainResearchArea     string  `json:"main_research_area"`
	SpecificResearchArea string  `json:"specific_research_area"`

	// Confidence is the model's self-reported certainty in [0,1]. It is
	// advisory only and never gates confirmation.
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Candidate is the identity information extracted from a source row that
// drives a resolution.
type Candidate struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Affiliation string `json:"affiliation,omitempty"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`

	// RowContext carries every non-empty source cell, so the model sees
	// columns the extractor did not recognize.
	RowContext RawRow `json:"-"`
}

// Profile is the structured form of an ORCID registry record.
type Profile struct {
	OrcidID        string       `json:"orcid_id"`
	Affiliations   []string     `json:"affiliations"`
	ResearchFields []string     `json:"research_fields"`
	Keywords       []string     `json:"keywords"`
	WorkTitles     []string     `json:"work_titles"`
	TotalWorks     int          `json:"total_works"`
	ExternalIDs    []ExternalID `json:"external_ids,omitempty"`
}

// ExternalID is a non-ORCID identifier attached to a researcher's record
// (Scopus author ID, ResearcherID, ...).
type ExternalID struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	URL   string `json:"url,omitempty"`
}

// Placeholder strings used when structuring finds nothing. These exact
// values are part of the API contract with the frontend.
const (
	PlaceholderNoAffiliations = "No affiliations found in profile"
	PlaceholderNoFields       = "Research fields not specified in profile"
	PlaceholderNoKeywords     = "No specific keywords identified"
)

// DeriveRowID builds a stable row identifier from the row's position and
// content. Equal rows at equal positions always produce the same ID, so a
// retry addresses exactly the row the operator clicked.
func DeriveRowID(index int, row RawRow) string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hash := sha256.New()
	for _, key := range keys {
		hash.Write([]byte(key))
		hash.Write([]byte{0})
		hash.Write([]byte(row[key]))
		hash.Write([]byte{0})
	}

	return fmt.Sprintf("row-%d-%x", index, hash.Sum(nil)[:6])
}

// FormatRowData renders a row as "col: value, col: value" pairs for the
// resolution prompt, skipping empty cells. Keys are emitted in sorted order
// so prompts are deterministic.
func FormatRowData(row RawRow) string {
	keys := make([]string, 0, len(row))
	for key := range row {
		if strings.TrimSpace(row[key]) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+row[key])
	}
	return strings.Join(parts, ", ")
}
