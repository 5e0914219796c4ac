// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// RowResolver is the resolver contract the orchestrator depends on. Tests
// substitute a stub to exercise ordering and failure isolation without a
// network.
type RowResolver interface {
	Resolve(ctx context.Context, candidate Candidate, modelName string) (Resolution, error)
}

// Progress reports batch advancement after each row completes. Emission is
// in completion order, not input order; it drives progress bars only and
// never carries results.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Label   string `json:"label"`
}

// BatchOptions tunes one batch run.
type BatchOptions struct {
	// Concurrency caps in-flight resolutions. Values below 1 fall back to
	// the default.
	Concurrency int

	// OnProgress, when set, is invoked after every completed row.
	OnProgress func(Progress)
}

// defaultConcurrency bounds in-flight LLM calls when the caller does not say.
const defaultConcurrency = 4

// Batch runs the resolver over many rows with bounded concurrency.
type Batch struct {
	resolver RowResolver
	logger   *slog.Logger
}

// NewBatch constructs the orchestrator.
func NewBatch(resolver RowResolver, logger *slog.Logger) *Batch {
	return &Batch{resolver: resolver, logger: logger}
}

// Run resolves every row and returns exactly one CandidateRow per input row,
// in input order.
//
// # Failure isolation
//
// A failing row becomes Status=not_found with a diagnostic Reasoning; it
// never aborts the batch. Context cancellation stops rows that have not
// started; rows already in flight finish under their own deadline.
func (batch *Batch) Run(ctx context.Context, rows []RawRow, modelName string, opts BatchOptions) []CandidateRow {
	results := make([]CandidateRow, len(rows))

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	semaphore := make(chan struct{}, concurrency)
	var waitGroup sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	reportProgress := func(label string) {
		if opts.OnProgress == nil {
			return
		}
		progressMu.Lock()
		completed++
		progress := Progress{Current: completed, Total: len(rows), Label: label}
		progressMu.Unlock()
		opts.OnProgress(progress)
	}

	for index, row := range rows {
		// Cancellation aborts everything not yet started.
		if ctx.Err() != nil {
			results[index] = failedRow(index, row, "Batch cancelled before this row started.")
			reportProgress(rowLabel(row))
			continue
		}

		waitGroup.Add(1)
		go func(index int, row RawRow) {
			defer waitGroup.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				results[index] = failedRow(index, row, "Batch cancelled before this row started.")
				reportProgress(rowLabel(row))
				return
			}

			// Each goroutine writes only its own slot, so the output is in
			// input order by construction.
			results[index] = batch.resolveRow(ctx, index, row, modelName)
			reportProgress(rowLabel(row))
		}(index, row)
	}

	waitGroup.Wait()
	return results
}

// RetryRow re-resolves a single row. It is a pure function of that row: no
// sibling state is read or written, so retrying one failure cannot disturb
// the rest of a completed batch.
func (batch *Batch) RetryRow(ctx context.Context, rowID string, row RawRow, modelName string) CandidateRow {
	result := batch.resolveRow(ctx, 0, row, modelName)
	result.RowID = rowID
	return result
}

// resolveRow handles one row end to end: candidate extraction, resolution,
// and outcome mapping.
func (batch *Batch) resolveRow(ctx context.Context, index int, row RawRow, modelName string) CandidateRow {
	candidate, ok := extractCandidate(row)
	if !ok {
		return failedRow(index, row, "Missing required name information in row.")
	}

	resolution, err := batch.resolver.Resolve(ctx, candidate, modelName)
	if err != nil {
		batch.logger.WarnContext(ctx, "orcid_row_resolution_failed",
			slog.Int("row_index", index),
			slog.String("model", modelName),
			slog.Any("error", err),
		)
		return failedRow(index, row, fmt.Sprintf("Resolution failed: %v", err))
	}

	result := CandidateRow{
		RowID:                DeriveRowID(index, row),
		Original:             row,
		OrcidID:              resolution.OrcidID,
		Confidence:           resolution.Confidence,
		Country:              resolution.Country,
		MainResearchArea:     resolution.MainResearchArea,
		SpecificResearchArea: resolution.SpecificResearchArea,
		Reasoning:            resolution.Reasoning,
	}

	if resolution.OrcidID != "" {
		result.Status = StatusFound
	} else {
		result.Status = StatusNotFound
		if result.Reasoning == "" {
			result.Reasoning = "No matching ORCID profile found."
		}
	}

	return result
}

// failedRow builds the not_found outcome for a row that could not be
// resolved, preserving the original cells untouched.
func failedRow(index int, row RawRow, reasoning string) CandidateRow {
	return CandidateRow{
		RowID:     DeriveRowID(index, row),
		Original:  row,
		Status:    StatusNotFound,
		Reasoning: reasoning,
	}
}

// candidate column aliases seen across institutional datasets. French names
// first; they dominate the production tables.
var (
	firstNameColumns   = []string{"prenom", "first_name", "firstname", "given_names", "given_name"}
	lastNameColumns    = []string{"nom", "last_name", "lastname", "family_name", "family_names"}
	emailColumns       = []string{"email", "mail", "courriel"}
	affiliationColumns = []string{"affiliation", "institution", "etablissement", "organization"}
	countryColumns     = []string{"country", "pays"}
)

// extractCandidate pulls identity fields out of a row. Both name parts are
// required; everything else is optional context.
func extractCandidate(row RawRow) (Candidate, bool) {
	candidate := Candidate{
		FirstName:   firstMatch(row, firstNameColumns),
		LastName:    firstMatch(row, lastNameColumns),
		Email:       firstMatch(row, emailColumns),
		Affiliation: firstMatch(row, affiliationColumns),
		Country:     firstMatch(row, countryColumns),
		RowContext:  row,
	}

	if candidate.FirstName == "" || candidate.LastName == "" {
		return Candidate{}, false
	}
	return candidate, true
}

// firstMatch returns the first non-empty value among the aliased columns,
// matching column names case-insensitively.
func firstMatch(row RawRow, aliases []string) string {
	for _, alias := range aliases {
		for key, value := range row {
			if strings.EqualFold(key, alias) && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// rowLabel renders a short human label for progress reporting.
func rowLabel(row RawRow) string {
	first := firstMatch(row, firstNameColumns)
	last := firstMatch(row, lastNameColumns)
	label := strings.TrimSpace(first + " " + last)
	if label == "" {
		return "unnamed row"
	}
	return label
}
