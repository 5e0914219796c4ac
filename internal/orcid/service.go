// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hbadaoui/scholarlink/internal/platform/constants"
	"github.com/hbadaoui/scholarlink/internal/platform/validate"
	"github.com/hbadaoui/scholarlink/internal/task"
	"github.com/hbadaoui/scholarlink/pkg/slice"
)

// ProfileFetcher is the registry access the service needs for profile
// viewing. Implemented by [*Client].
type ProfileFetcher interface {
	FetchRecord(ctx context.Context, orcidID string) (*Record, error)
	FetchWorks(ctx context.Context, orcidID string) (*Works, error)
}

// RowSource reads candidate rows out of a connected source database.
// Implemented by the tablesource service.
type RowSource interface {
	FetchRows(ctx context.Context, dbID int, tableName string, columns []string, limit int) ([]RawRow, error)
}

// Service exposes the resolution operations to the HTTP layer.
type Service struct {
	batch       *Batch
	profiles    ProfileFetcher
	sources     RowSource
	tasks       *task.Registry
	concurrency int
	logger      *slog.Logger
}

// NewService wires the resolution service.
func NewService(batch *Batch, profiles ProfileFetcher, sources RowSource, tasks *task.Registry, concurrency int, logger *slog.Logger) *Service {
	return &Service{
		batch:       batch,
		profiles:    profiles,
		sources:     sources,
		tasks:       tasks,
		concurrency: concurrency,
		logger:      logger,
	}
}

// TableSearchRequest describes a batch resolution over a source table.
type TableSearchRequest struct {
	DBID            int      `json:"db_id"`
	TableName       string   `json:"table_name"`
	SelectedColumns []string `json:"selected_columns"`
	Limit           int      `json:"limit"`
	ModelName       string   `json:"model_name"`
}

// BatchResult is the terminal payload stored on a completed batch task.
type BatchResult struct {
	Results           []CandidateRow `json:"results"`
	TotalProcessed    int            `json:"total_processed"`
	SuccessfulMatches int            `json:"successful_matches"`
	ModelUsed         string         `json:"model_used"`
}

// StartTableSearch validates the request, registers a task, and runs the
// batch in the background. It returns the task ID immediately; clients poll
// the tasks endpoint for progress and results.
func (service *Service) StartTableSearch(ctx context.Context, request TableSearchRequest) (string, error) {
	v := &validate.Validator{}
	err := v.
		Required("table_name", request.TableName).
		Required("model_name", request.ModelName).
		Custom("selected_columns", len(request.SelectedColumns) == 0, "At least one column is required").
		Custom("db_id", request.DBID <= 0, "Must be a positive database ID").
		Err()
	if err != nil {
		return "", err
	}

	taskID := service.tasks.Create()

	// The batch outlives the submitting request; it carries its own
	// deadline instead of the request's.
	batchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.GlobalRequestTimeout)

	go func() {
		defer cancel()
		service.runTableSearch(batchCtx, taskID, request)
	}()

	return taskID, nil
}

// runTableSearch is the background body of a table search task.
func (service *Service) runTableSearch(ctx context.Context, taskID string, request TableSearchRequest) {
	service.tasks.SetRunning(taskID)

	rows, err := service.sources.FetchRows(ctx, request.DBID, request.TableName, request.SelectedColumns, request.Limit)
	if err != nil {
		// Batch-level failure: the source itself is unusable, so there is
		// nothing to isolate per row.
		service.logger.ErrorContext(ctx, "table_search_source_failed",
			slog.String("task_id", taskID),
			slog.Int("db_id", request.DBID),
			slog.String("table", request.TableName),
			slog.Any("error", err),
		)
		service.tasks.Fail(taskID, fmt.Sprintf("Failed to read source table: %v", err))
		return
	}

	results := service.batch.Run(ctx, rows, request.ModelName, BatchOptions{
		Concurrency: service.concurrency,
		OnProgress: func(progress Progress) {
			service.tasks.SetProgress(taskID, progress.Current, progress.Total, progress.Label)
		},
	})

	found := slice.Filter(results, func(row CandidateRow) bool {
		return row.Status == StatusFound
	})

	service.tasks.Complete(taskID, BatchResult{
		Results:           results,
		TotalProcessed:    len(results),
		SuccessfulMatches: len(found),
		ModelUsed:         request.ModelName,
	})

	service.logger.InfoContext(ctx, "table_search_completed",
		slog.String("task_id", taskID),
		slog.Int("total", len(results)),
		slog.Int("matches", len(found)),
	)
}

// SearchIndividual resolves a single researcher synchronously.
func (service *Service) SearchIndividual(ctx context.Context, researcher RawRow, modelName string) (CandidateRow, error) {
	v := &validate.Validator{}
	err := v.
		Required("model_name", modelName).
		Custom("researcher", len(researcher) == 0, "Researcher data is required").
		Err()
	if err != nil {
		return CandidateRow{}, err
	}

	result := service.batch.RetryRow(ctx, DeriveRowID(0, researcher), researcher, modelName)
	return result, nil
}

// RetryRow re-resolves exactly one row from a previous batch.
func (service *Service) RetryRow(ctx context.Context, rowID string, original RawRow, modelName string) (CandidateRow, error) {
	v := &validate.Validator{}
	err := v.
		Required("row_id", rowID).
		Required("model_name", modelName).
		Custom("original_data", len(original) == 0, "Original row data is required").
		Err()
	if err != nil {
		return CandidateRow{}, err
	}

	return service.batch.RetryRow(ctx, rowID, original, modelName), nil
}

// GetProfile fetches a registry record and returns its structured form.
func (service *Service) GetProfile(ctx context.Context, orcidID string, includeWorks bool, worksLimit int) (Profile, error) {
	v := &validate.Validator{}
	if err := v.OrcidID("orcid_id", orcidID).Err(); err != nil {
		return Profile{}, err
	}

	record, err := service.profiles.FetchRecord(ctx, orcidID)
	if err != nil {
		return Profile{}, err
	}

	payload := ProfilePayload{
		OrcidID:    orcidID,
		Record:     record,
		WorksLimit: worksLimit,
	}

	if includeWorks {
		works, err := service.profiles.FetchWorks(ctx, orcidID)
		if err != nil {
			// Works are an enrichment; a profile without them is still
			// useful, so log and continue.
			service.logger.WarnContext(ctx, "orcid_works_fetch_failed",
				slog.String("orcid_id", orcidID),
				slog.Any("error", err),
			)
		} else {
			payload.Works = works
		}
	}

	return StructureProfile(payload), nil
}

// ExportCSV writes the rows as a CSV document.
func (service *Service) ExportCSV(writer io.Writer, rows []CandidateRow, selectedColumns []string) error {
	v := &validate.Validator{}
	err := v.
		Custom("rows", len(rows) == 0, "At least one row is required").
		Custom("selected_columns", len(selectedColumns) == 0, "At least one column is required").
		Err()
	if err != nil {
		return err
	}

	return WriteCSV(writer, rows, selectedColumns)
}
