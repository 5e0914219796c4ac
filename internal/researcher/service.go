// Copyright (c) 2026 ScholarLink. All rights reserved.

package researcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hbadaoui/scholarlink/internal/platform/dberr"
	"github.com/hbadaoui/scholarlink/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SaveBulk stores a batch of confirmed researchers.
//
// Rows whose ORCID iD already exists are reported as duplicates alongside the
// stored record; the stored record is never touched. Invalid rows land in the
// failed list. One bad row never aborts the batch.
func (service *Service) SaveBulk(context context.Context, input []Researcher) (BulkReport, error) {
	return service.save(context, input, false)
}

// Overwrite stores a batch like [Service.SaveBulk] but force-updates the
// stored record on an ORCID collision instead of reporting a duplicate.
func (service *Service) Overwrite(context context.Context, input []Researcher) (BulkReport, error) {
	return service.save(context, input, true)
}

func (service *Service) save(ctx context.Context, input []Researcher, overwrite bool) (BulkReport, error) {
	if len(input) == 0 {
		return BulkReport{}, validate.RequiredError("chercheurs", "At least one researcher is required")
	}

	report := BulkReport{}

	for _, submitted := range input {
		r := submitted
		normalize(&r)

		validator := &validate.Validator{}
		validator.Required(FieldNom, r.Nom).Required(FieldPrenom, r.Prenom)
		if r.OrcidID != nil && *r.OrcidID != "" {
			validator.OrcidID(FieldOrcidID, *r.OrcidID)
		}
		if err := validator.Err(); err != nil {
			report.Failed = append(report.Failed, FailedEntry{Submitted: submitted, Reason: err.Error()})
			continue
		}

		existing, err := service.lookupExisting(ctx, r.OrcidID)
		if err != nil {
			report.Failed = append(report.Failed, FailedEntry{Submitted: submitted, Reason: fmt.Sprintf("Lookup failed: %v", err)})
			continue
		}

		switch {
		case existing == nil:
			if err := service.repo.CreateResearcher(ctx, &r); err != nil {
				report.Failed = append(report.Failed, FailedEntry{Submitted: submitted, Reason: fmt.Sprintf("Save failed: %v", err)})
				continue
			}
			report.Chercheurs = append(report.Chercheurs, &r)

		case overwrite:
			r.ID = existing.ID
			if err := service.repo.UpdateResearcher(ctx, &r); err != nil {
				report.Failed = append(report.Failed, FailedEntry{Submitted: submitted, Reason: fmt.Sprintf("Overwrite failed: %v", err)})
				continue
			}
			report.Chercheurs = append(report.Chercheurs, &r)

		default:
			report.Duplicates = append(report.Duplicates, DuplicateEntry{Submitted: submitted, Existing: existing})
		}
	}

	report.SavedCount = len(report.Chercheurs)
	report.DuplicateCount = len(report.Duplicates)
	report.FailedCount = len(report.Failed)

	service.logger.Info("researchers_saved",
		slog.Int("saved", report.SavedCount),
		slog.Int("duplicates", report.DuplicateCount),
		slog.Int("failed", report.FailedCount),
		slog.Bool("overwrite", overwrite),
	)

	return report, nil
}

// lookupExisting finds the stored record sharing the row's ORCID iD, if any.
// Rows without an iD never collide.
func (service *Service) lookupExisting(ctx context.Context, orcidID *string) (*Researcher, error) {
	if orcidID == nil || *orcidID == "" {
		return nil, nil
	}

	existing, err := service.repo.GetByOrcid(ctx, *orcidID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

func (service *Service) ListResearchers(context context.Context, search string, limit, offset int) ([]*Researcher, int, error) {
	return service.repo.ListResearchers(context, search, limit, offset)
}

func (service *Service) DeleteResearcher(context context.Context, id string) error {
	validator := &validate.Validator{}
	if err := validator.UUID("id", id).Err(); err != nil {
		return err
	}

	if err := service.repo.DeleteResearcher(context, id); err != nil {
		return err
	}

	service.logger.Warn("researcher_deleted", slog.String("researcher_id", id))
	return nil
}

// normalize applies storage constraints before validation.
func normalize(r *Researcher) {
	if len(r.Affiliation) > MaxAffiliationLen {
		r.Affiliation = r.Affiliation[:MaxAffiliationLen]
	}
}
